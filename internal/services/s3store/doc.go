// Package s3store wraps the AWS SDK S3 client with the two object operations
// the publishing stage needs: an existence probe and a file upload.
package s3store
