// Package services implements the driving port interfaces.
// Services contain the jobmatch pipelines and orchestrate
// calls to driven ports (adapters).
//
//   - IndexBuilder: normalise, deduplicate, batch-embed and upsert job records.
//   - QueryEngine: embed a query, search with an optional category filter,
//     and fall back to an unfiltered search when the filter matches nothing.
//   - SettingsService: layered configuration (defaults, config file, environment).
//
// Services only see driven ports; they never import an adapter package.
package services
