// Package archive queries the Wayback Machine CDX index for every URL ever
// captured under a host.
//
// One request is made per target:
//
//	<endpoint>?url=*.<host>/*&output=json&fl=original&collapse=urlkey
//
// The wildcard scope covers the host, all of its subdomains and every path
// beneath them. fl=original limits each record to the captured URL and
// collapse=urlkey folds repeated captures of the same URL into one record.
//
// The response is a JSON array of arrays whose first row is a header
// (["original"]). ParseRecords drops it and returns the first field of every
// remaining row.
//
// Client.Snapshots returns typed errors for every failure mode. Client.Fetch
// is the boundary used by the scan pipeline: it never returns an error, and
// converts every failure into an empty URL list plus one advisory line on
// the Reporter.
package archive
