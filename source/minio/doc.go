// Package minio provides a source.Store for MinIO and other S3-compatible
// object stores.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("access", "secret", ""),
//	    Secure: false,
//	})
//	store := pixminio.NewStore(client, "images", "thumbs/")
//
// Blobs issue one ranged GET per ReadAt.
package minio
