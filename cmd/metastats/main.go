// Command metastats prints Facebook Page and Instagram profile statistics as JSON.
//
// Usage:
//
//	metastats page 20531316728
//	metastats engagement 20531316728 https://facebook.com/nasa
//	metastats posts-summary 20531316728
//	metastats next 'https://graph.facebook.com/v19.0/...&after=...'
//	metastats profile nasa          # optional INSTAGRAM_* cookies
//	metastats token                 # requires META_CLIENT_ID, META_CLIENT_SECRET
//
// Graph commands read META_VERSION and either META_ACCESS_TOKEN or the app
// credentials from the environment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/metastats/pkg/graph"
	"github.com/codeGROOVE-dev/metastats/pkg/instagram"
	"github.com/codeGROOVE-dev/metastats/pkg/metastats"
)

// failed is implemented by every result.Result.
type failed interface {
	IsFailure() bool
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	version := flag.String("version", "", "graph API version, e.g. 19.0 (default $META_VERSION)")
	token := flag.String("token", "", "graph access token (default $META_ACCESS_TOKEN, else client credentials)")
	retries := flag.Uint("retries", 0, "extra attempts on network errors, 429 and 5xx")
	proof := flag.Bool("proof", false, "sign graph requests with appsecret_proof")
	noBrowser := flag.Bool("no-browser", false, "disable reading instagram cookies from browser stores")
	parallel := flag.Int("parallel", 4, "concurrent requests when several ids are given")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   logLevel,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	opts := []metastats.Option{metastats.WithLogger(logger), metastats.WithRetries(*retries)}
	if *version != "" {
		opts = append(opts, metastats.WithVersion(*version))
	}
	if *token != "" {
		opts = append(opts, metastats.WithAccessToken(*token))
	}
	if *proof {
		opts = append(opts, metastats.WithAppSecretProof())
	}
	if !*noBrowser {
		opts = append(opts, metastats.WithBrowserCookies())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	out, err := run(ctx, cmd, args, *parallel, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}
	if err := outputJSON(out); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
	if anyFailed(out) {
		os.Exit(2)
	}
}

func run(ctx context.Context, cmd string, args []string, parallel int, opts []metastats.Option) (any, error) {
	switch cmd {
	case "token":
		return metastats.AccessToken(ctx, opts...)
	case "page":
		return each(ctx, args, parallel, func(ctx context.Context, id string) (any, error) {
			if instagram.Match(id) {
				return metastats.Profile(ctx, id, opts...)
			}
			return metastats.PageInfo(ctx, id, opts...)
		})
	case "engagement":
		return each(ctx, args, parallel, func(ctx context.Context, id string) (any, error) {
			return metastats.PageEngagement(ctx, id, opts...)
		})
	case "posts":
		return each(ctx, args, parallel, func(ctx context.Context, id string) (any, error) {
			return metastats.Posts(ctx, id, opts...)
		})
	case "posts-summary":
		return each(ctx, args, parallel, func(ctx context.Context, id string) (any, error) {
			return metastats.PostsWithSummary(ctx, id, opts...)
		})
	case "reactions":
		return each(ctx, args, parallel, func(ctx context.Context, id string) (any, error) {
			return metastats.Reactions(ctx, id, opts...)
		})
	case "next":
		return each(ctx, args, parallel, func(ctx context.Context, next string) (any, error) {
			return metastats.NextPosts(ctx, graph.Paging{Next: next}, opts...)
		})
	case "profile":
		return each(ctx, args, parallel, func(ctx context.Context, name string) (any, error) {
			return metastats.Profile(ctx, name, opts...)
		})
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// each runs fn for every arg, at most parallel at a time, and keeps the
// results in argument order. A single arg yields a single value.
func each(ctx context.Context, args []string, parallel int, fn func(context.Context, string) (any, error)) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: missing argument", metastats.ErrInvalidInput)
	}
	results := make([]any, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, arg := range args {
		g.Go(func() error {
			r, err := fn(ctx, arg)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func anyFailed(out any) bool {
	if list, ok := out.([]any); ok {
		for _, v := range list {
			if anyFailed(v) {
				return true
			}
		}
		return false
	}
	f, ok := out.(failed)
	return ok && f.IsFailure()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: metastats [options] <command> [args...]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  page <id|url>...           page id and name (instagram URLs fetch the profile)")
	fmt.Fprintln(os.Stderr, "  engagement <id|url>...     follower, fan and rating counts")
	fmt.Fprintln(os.Stderr, "  posts <id|url>...          first page of posts")
	fmt.Fprintln(os.Stderr, "  posts-summary <id|url>...  first page of posts with like and comment totals")
	fmt.Fprintln(os.Stderr, "  reactions <post-id>...     first page of reactions to a post")
	fmt.Fprintln(os.Stderr, "  next <paging-url>...       follow a paging.next link of a posts page")
	fmt.Fprintln(os.Stderr, "  profile <username|url>...  instagram profile counters")
	fmt.Fprintln(os.Stderr, "  token                      exchange client credentials for an access token")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nExit status is 2 when the API answered with an error.")
}
