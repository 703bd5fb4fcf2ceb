// Package audit writes the subnet import transcript.
//
// Each import run truncates the transcript and writes three fixed sections:
// a read phase listing per-line parse diagnostics, the safety guard's
// blocking reasons when the plan was rejected, and an apply phase listing
// every API request the executor attempted:
//
//	------ READ FROM subnets.txt START ------
//	14: Invalid tag frankrike. Valid tags can be found in tags.txt
//	------ READ FROM subnets.txt END ------
//	------ API REQUESTS START ------
//	DELETE http://mreg:8000/subnets/10.0.16.0/24
//	POST http://mreg:8000/subnets/ - 10.0.32.0/24
//	PATCH http://mreg:8000/subnets/10.0.0.0/24
//	------ API REQUESTS END ------
//
// The format is stable; tooling greps it.
//
// Archiver optionally uploads finished transcripts to S3-compatible storage
// keyed by run id, keeping a history the local write-truncate cycle loses.
package audit
