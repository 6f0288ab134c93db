// Package cli implements the interactive backoffice for the feedback
// service.
//
// The REPL reads one command per line and calls the FeedbackService over
// gRPC. Listings are printed as aligned tables.
//
// Commands
//
//	help                          show available commands
//	ping                          check that the server answers
//	users                         list users entries can be assigned to
//	site <siteKey> [page]         list entries of a site
//	page <pageKey> [page]         list entries of a page
//	add <siteKey> <pageKey> <rating>
//	                              submit an entry, prompting for the rest
//	status <entryKey> <statusKey> change the status of an entry
//	assign <entryKey> [userKey]   assign an entry, or unassign it
//	archive <entryKey>            archive an entry
//	delete <entryKey>             delete an entry
//	exit | quit                   leave the program
package cli
