// Package foldersize computes the aggregate size of every immediate
// subfolder of a root directory.
//
// A Coordinator lists the root, dispatches one subtree walk per child
// directory onto a bounded worker pool and streams progress, per-subfolder
// results and a final completion event to the caller. Walks are depth
// bounded, honour glob exclusions, never follow symbolic links and can
// deduplicate hard links across the whole run.
package foldersize
