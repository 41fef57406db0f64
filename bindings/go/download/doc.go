// Package download materializes the components of a resolved graph into a
// target directory and removes them again.
//
// Every downloaded file is recorded with its digest in a watermark file in
// the target directory. Cleanup only removes files whose content still
// matches the recorded digest, so local modifications survive.
package download
