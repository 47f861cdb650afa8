// Package uploads implements the bulk media upload flow.
//
// A Batch holds one Item per submitted file. The Processor walks the batch
// strictly in order with a single file in flight. Each file moves from
// pending to uploading and then to success, error or skipped. A failed file
// never aborts the batch. Cancelling the context stops the walk and leaves
// the unprocessed files pending.
package uploads
