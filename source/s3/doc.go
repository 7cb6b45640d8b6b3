// Package s3 provides an S3 implementation of the source.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("images/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	engine, err := pixload.New(pixload.WithStore(store))
//
// Objects are fetched whole with the S3 transfer manager, which splits large
// objects into concurrent ranged GETs.
package s3
