package main

import (
	"context"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jshufro/abi2go/generator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const (
	documentSuffix = ".json"

	// Compiler inputs sit next to their outputs and are not artifacts
	inputSuffix = ".input.json"
)

var (
	outFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output directory for the generated packages (default = INPUT_DIR)",
	}
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML settings file",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log at debug level",
	}
)

var log = logrus.WithField("module", "main")

var app = cli.NewApp()

func init() {
	app.Name = "abi2go"
	app.Usage = "generate Go bindings from compiled contract artifacts"
	app.ArgsUsage = "INPUT_DIR"
	app.Flags = []cli.Flag{
		outFlag,
		configFlag,
		verboseFlag,
	}
	app.Action = run
}

// A document to generate
type job struct {
	Input   string
	Output  string
	Package string

	// Relative to the input directory
	Source string
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one INPUT_DIR")
	}
	inputDir := c.Args().First()

	cfg, err := loadConfig(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	if c.IsSet(outFlag.Name) {
		cfg.Output = c.String(outFlag.Name)
	}
	if cfg.Output == "" {
		cfg.Output = inputDir
	}
	if c.Bool(verboseFlag.Name) {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	jobs, err := plan(inputDir, cfg)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.WithField("dir", inputDir).Warn("no artifact documents found")
		return nil
	}
	return generateAll(c.Context, jobs, cfg.Parallelism)
}

// plan finds every artifact document under inputDir and decides where its package goes.
// A document at <rel dir>/<name>.json becomes <output>/<rel dir>/<pkg>/<pkg>.go.
func plan(inputDir string, cfg *Config) ([]job, error) {
	var out []job
	outputs := make(map[string]string)

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), documentSuffix) || strings.HasSuffix(d.Name(), inputSuffix) {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ignored, err := isIgnored(rel, cfg.Ignore)
		if err != nil {
			return err
		}
		if ignored {
			log.WithField("file", rel).Debug("ignoring document")
			return nil
		}

		pkg := packageName(strings.TrimSuffix(d.Name(), documentSuffix))
		output := filepath.Join(cfg.Output, filepath.Dir(filepath.FromSlash(rel)), pkg, pkg+".go")
		if other, ok := outputs[output]; ok {
			return errors.Errorf("%s and %s would both be generated into %s", other, rel, output)
		}
		outputs[output] = rel

		out = append(out, job{
			Input:   path,
			Output:  output,
			Package: pkg,
			Source:  rel,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", inputDir)
	}
	return out, nil
}

func isIgnored(rel string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		for _, candidate := range []string{rel, filepath.Base(rel)} {
			matched, err := filepath.Match(pattern, candidate)
			if err != nil {
				return false, errors.Wrapf(err, "ignore pattern %q", pattern)
			}
			if matched {
				return true, nil
			}
		}
	}
	return false, nil
}

// packageName derives a valid Go package name from a document's base name, eg "ERC20-Token" is erc20_token.
func packageName(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	switch {
	case out == "":
		return "bindings"
	case out[0] >= '0' && out[0] <= '9':
		out = "abi" + out
	case token.IsKeyword(out):
		out += "_"
	}
	return out
}

func generateAll(ctx context.Context, jobs []job, parallelism int) error {
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := generateFile(j); err != nil {
				fmt.Fprintf(color.Error, "%s %s\n", color.RedString("failed"), j.Source)
				return errors.Wrap(err, j.Source)
			}
			fmt.Fprintf(color.Output, "%s %s\n", color.GreenString("generated"), j.Output)
			return nil
		})
	}
	return g.Wait()
}

func generateFile(j job) error {
	data, err := os.ReadFile(j.Input)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"file":    j.Source,
		"package": j.Package,
	}).Debug("generating")

	code, err := generator.Generate(data, generator.Options{
		Package:      j.Package,
		ContractName: strings.TrimSuffix(filepath.Base(j.Input), documentSuffix),
		Source:       j.Source,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(j.Output), 0755); err != nil {
		return err
	}
	return os.WriteFile(j.Output, code, 0644)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(color.Error, color.RedString(err.Error()))
		os.Exit(1)
	}
}
