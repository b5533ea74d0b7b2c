// Package commands implements the pdnsq CLI: a single flag-driven
// dig-style query command plus a handful of supporting subcommands
// (backend profile management, backend info, version, completion).
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var opts queryOptions

var rootCmd = &cobra.Command{
	Use:   "pdnsq [-r|-n|-i|-N|-R] value",
	Short: "Query a passive DNS service",
	Long: `pdnsq queries a passive DNS (pDNS) backend for rrset, rdata, or raw
records, matching the query shapes a dig-style lookup or a dnsdbq-style
batch file would express.

Examples:
  # rrset lookup by owner name
  pdnsq -r www.example.com

  # rdata lookup by IP prefix
  pdnsq -i 192.0.2.0/24

  # batch mode: read queries from stdin, one per line, verbose framing
  pdnsq -f -f < queries.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			opts.bare = args[0]
		}
		return runQuery(os.Stdout, opts)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	f := rootCmd.Flags()

	f.StringVarP(&opts.shape.rrsetName, "rrset-name", "r", "", "query rrset by name: NAME[/TYPE[/BAILIWICK]]")
	f.StringVarP(&opts.shape.rdataName, "rdata-name", "n", "", "query rdata by name: NAME[/TYPE]")
	f.StringVarP(&opts.shape.rdataIP, "rdata-ip", "i", "", "query rdata by IP address: ADDR[/PFXLEN]")
	f.StringVarP(&opts.shape.rawName, "rdata-raw", "N", "", "query rdata by raw name: NAME[/TYPE]")
	f.StringVarP(&opts.shape.rawRRset, "rrset-raw", "R", "", "query rrset by raw name: NAME[/TYPE[/BAILIWICK]]")

	f.StringVarP(&opts.before, "before", "A", "", "only return records last seen before this time")
	f.StringVarP(&opts.after, "after", "B", "", "only return records first seen after this time")
	f.BoolVarP(&opts.complete, "complete", "c", false, "require strict time containment instead of overlap")

	f.IntVarP(&opts.queryLimit, "query-limit", "l", -1, "server-side result cap")
	f.IntVarP(&opts.outputLimit, "output-limit", "L", -1, "client-side output cap")
	f.IntVarP(&opts.maxCount, "max-count", "M", -1, "server-side max_count filter")
	f.IntVarP(&opts.offset, "offset", "O", 0, "skip the first N server-side results")

	f.CountVarP(&opts.framing, "batch", "f", "read a batch of queries from stdin; repeat for verbose framing")
	f.BoolVarP(&opts.multiple, "multiple", "m", false, "merge all batch queries into one output stream (sorted and deduplicated only with -s/-S/-k)")

	f.StringVarP(&opts.presentation, "presentation", "p", "", "presentation mode: text, json, csv, minimal")
	f.BoolVarP(&opts.jsonAlias, "json", "j", false, "alias for -p json")

	f.BoolVarP(&opts.sortAsc, "sort", "s", false, "sort and deduplicate output, ascending")
	f.BoolVarP(&opts.sortDesc, "sort-desc", "S", false, "sort and deduplicate output, descending")
	f.StringVarP(&opts.sortKeys, "sort-keys", "k", "", "comma-separated sort keys: first,last,duration,count,rrname,rrtype")

	f.StringVarP(&opts.verb, "verb", "V", "lookup", "query verb: lookup or summarize")
	f.StringVarP(&opts.backendName, "backend", "u", "", "named backend profile to use")

	f.BoolVarP(&opts.sevenBitOff, "disable-7bit", "8", false, "disable 7-bit ASCII enforcement on owner names")
	f.StringVarP(&opts.jsonInputPath, "json-input", "J", "", `read pre-fetched NDJSON from FILE (or "-" for stdin) instead of querying the network`)

	f.BoolVarP(&opts.force4, "ipv4", "4", false, "force IPv4 for backend connections")
	f.BoolVarP(&opts.force6, "ipv6", "6", false, "force IPv6 for backend connections")
	f.BoolVarP(&opts.insecureSkipVerify, "disable-ssl", "U", false, "disable TLS certificate verification")

	f.StringVar(&opts.backendKind, "kind", "", "backend kind when not using a named profile: saf or cof")
	f.StringVar(&opts.server, "server", "", "backend server URL, overriding any named profile")
	f.StringVar(&opts.apikey, "apikey", "", "backend API key, overriding any named profile")
	f.StringVar(&opts.timeout, "timeout", "", "per-request HTTP timeout: bare seconds or a duration string like \"30s\"")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(backendCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
