// Package dataset manages the TSV question banks games are built from.
//
// The dataset package handles:
//   - Loading and caching .tsv files from the datasets directory
//   - Validated uploads, decrypting passphrase-protected files on the way in
//   - Topic and module discovery for the session-creation UI
//   - An in-memory store for uploaded question images
//
// Datasets are plain tab-separated files with one question per row; see
// package tsv for the row format. A file may also be uploaded in the
// encrypted form the classroom distribution tool produces, in which case
// Store decrypts it with the provided passphrase before parsing.
package dataset
