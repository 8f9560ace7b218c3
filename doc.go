// Package emailkit is a toolkit for building styled HTML emails.
//
// The module is organised by concern:
//
//   - pkg/theme, pkg/variant, pkg/recipe, pkg/blueprint, pkg/preset and
//     pkg/profile hold the customization entities. Each manager keeps its
//     items in memory and, when given a storage adapter, persists every
//     change through pkg/storage.
//   - pkg/customization combines the managers: style resolution in layer
//     order, profile activation, and bundle import/export/backup.
//   - pkg/registry and pkg/components describe and render the email
//     components; pkg/builder assembles documents from blocks.
//   - pkg/export turns arbitrary HTML into email-client-safe HTML with
//     inlined CSS, table layout and Outlook fixes.
//   - handler, pkg/binder and modules/builder expose everything over HTTP;
//     cmd/server runs the API and cmd/emailexport is the export CLI.
//
// Storage drivers (memory, file, Redis, MongoDB, PostgreSQL, S3), the
// search index (memory, OpenSearch) and the email sender (dev, Postmark)
// are chosen through environment configuration, see pkg/config.
package emailkit
