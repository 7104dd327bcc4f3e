// app keeps a rolling index of recent posts per author and deletes them on request.
//
// *. Every post seen live (or found by the startup backfill) is tracked under its author
//    for the retention window (48 hours by default), then swept away.
// *. Nothing is persisted. After a restart the backfill walks each channel's history
//    backwards until it crosses the retention window or hits the per channel cap.
// *. A purge takes a snapshot of the author's tracked posts, groups them by channel and
//    deletes them in chunks of at most 100, one channel at a time.
// *. A purge never edits the tracker itself. Deleted ids come back through the event feed,
//    the same way a deletion notified by the server would.
//
// Failure handling of a purge, per channel:
//    already gone:             logged, next chunk continues
//    unauthorized/unsupported: channel skipped, not counted as processed
//    anything else:            rest of the channel abandoned, channel counted as processed
//
// Worst case memory is proportional to the post rate times the retention window.
package app
