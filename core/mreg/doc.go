// Package mreg is the HTTP client for the mreg host/DNS/subnet inventory API.
//
// All communication with the service goes through Client: typed read methods
// per resource (hosts, subnets, address records, aliases, hinfo presets,
// zones) and typed mutations that the request journal observes.
//
// # Error Reporting
//
// Non-2xx responses become *APIError, which renders the verb, the full URL,
// the status, and the response body pretty-printed when it is JSON:
//
//	POST "http://mreg:8000/subnets/": 400: Bad Request
//	{
//	  "range": ["subnet overlaps 10.0.0.0/23"]
//	}
//
// # Journaling
//
// When a Journal is attached, every successful POST, PATCH and DELETE is
// recorded together with the state the resource had before the change. The
// history feature stores these records and can replay or reverse them later.
// Replay never journals, so redoing history does not grow history.
package mreg
