package main

// Cloud storage schemes for source locations (s3://, gs://).
import (
	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
)
