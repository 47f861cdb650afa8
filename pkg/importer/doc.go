// Package importer loads profiles and stories from external sources.
//
// Every record carries an external_id. A record whose external_id already
// exists in the database, or appeared earlier in the same batch, is skipped;
// otherwise it is inserted. Failures are collected per record and never stop
// the rest of the batch.
package importer
