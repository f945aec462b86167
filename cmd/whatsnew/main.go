// Command whatsnew synthesizes a structured changelog for a GitHub release
// and prints it as JSON or Markdown
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"whatsnew/internal/modkit"
	"whatsnew/internal/modkit/module"
	"whatsnew/internal/platform/config"
	"whatsnew/internal/platform/logger"
	releasesdom "whatsnew/internal/services/releases/domain"
	releasesmod "whatsnew/internal/services/releases/module"
	synthdom "whatsnew/internal/services/synth/domain"
	synthmod "whatsnew/internal/services/synth/module"
)

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func emitJSON(v any) {
	enc, err := json.MarshalIndent(v, "", "  ")
	must(err)
	_, _ = os.Stdout.Write(enc)
	_, _ = os.Stdout.WriteString("\n")
}

// day parses YYYY-MM-DD; endOfDay moves the instant to the last nanosecond
// so an inclusive -until bound covers the whole day
func day(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD day", s)
	}
	t = t.UTC()
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func main() {
	var (
		owner    = flag.String("owner", "", "repository owner (required)")
		repo     = flag.String("repo", "", "repository name (required)")
		tag      = flag.String("tag", "", "release tag (defaults to the latest release)")
		packages = flag.Bool("packages", false, "aggregate a release window per package instead of a single release")
		since    = flag.String("since", "", "window start as YYYY-MM-DD (packages mode)")
		until    = flag.String("until", "", "window end as YYYY-MM-DD, inclusive (packages mode)")
		limit    = flag.Int("limit", 0, "max releases to aggregate (packages mode)")
		format   = flag.String("format", "json", "output format: json or md")
		timeout  = flag.Duration("timeout", 60*time.Second, "overall deadline")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *owner == "" || *repo == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "json" && *format != "md" {
		must(fmt.Errorf("unknown format %q (want json or md)", *format))
	}

	// keep stdout clean for the document; logs go to stderr
	lopt := logger.FromEnv()
	lopt.Writer = os.Stderr
	if !*verbose {
		lopt.Level = "warn"
	}
	logger.Init(lopt)

	// modules read SOURCE_GITHUB_* / ENHANCE_LLM_* / CORE_SYNTH_* /
	// CORE_RELEASES_* from the environment, same as the API service
	deps := modkit.Deps{Log: *logger.Get(), Cfg: config.New()}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *packages {
		from, err := day(*since, false)
		must(err)
		to, err := day(*until, true)
		must(err)

		agg := module.MustPortsOf[releasesmod.Ports](releasesmod.New(deps)).Aggregate
		doc, err := agg.Packages(ctx, releasesdom.Query{
			Owner: *owner,
			Repo:  *repo,
			Since: from,
			Until: to,
			Limit: *limit,
		})
		must(err)

		if *format == "md" {
			_, _ = os.Stdout.WriteString(doc.Markdown())
			return
		}
		emitJSON(doc)
		return
	}

	synth := module.MustPortsOf[synthmod.Ports](synthmod.New(deps)).Synth
	doc, err := synth.Changelog(ctx, synthdom.Query{Owner: *owner, Repo: *repo, Tag: *tag})
	must(err)

	if *format == "md" {
		_, _ = os.Stdout.WriteString(doc.Markdown())
		return
	}
	emitJSON(doc)
}
