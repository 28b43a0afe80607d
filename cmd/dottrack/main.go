package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	inputPathEnv     = "VISP_INPUT_IMAGE_PATH"
	sequenceSubdir   = "ViSP-images/mire-2"
	sequencePattern  = "image.%04d.pgm"
	defaultLastFrame = 30
	maxWarpModel     = 4
	maxTrackerType   = 5
)

var errUsage = errors.New("bad arguments")

type options struct {
	inputPath    string
	lastFrame    int
	noDisplay    bool
	noClick      bool
	warpModel    int
	trackerType  int
	pyramidal    bool
	help         bool
	pointsFile   string
	outputDir    string
	tuningConfig string
}

func registerFlags(fs *flag.FlagSet) *options {
	opts := &options{}
	fs.StringVar(&opts.inputPath, "i", "", "image sequence root, the sequence is <root>/"+sequenceSubdir+"/"+sequencePattern+" (default $"+inputPathEnv+")")
	fs.IntVar(&opts.lastFrame, "l", defaultLastFrame, "last frame number")
	fs.BoolVar(&opts.noDisplay, "d", false, "turn off the display")
	fs.BoolVar(&opts.noClick, "c", false, "disable mouse click, the dot is found by an image search")
	fs.IntVar(&opts.warpModel, "w", 0, "warp model of the template tracker [0..4]")
	fs.IntVar(&opts.trackerType, "t", 0, "template tracker variant [0..5]")
	fs.BoolVar(&opts.pyramidal, "p", false, "track on half resolution pyramid level")
	fs.BoolVar(&opts.help, "h", false, "print the help")
	fs.StringVar(&opts.pointsFile, "f", "", "point list file with the seed, written after a click when missing")
	fs.StringVar(&opts.outputDir, "o", "dottrack-output", "directory of the rendered frames")
	fs.StringVar(&opts.tuningConfig, "config", "", "tuning JSON file")
	return opts
}

// validate checks selectors and resolves the sequence pattern
func (opts *options) validate(getenv func(string) string) (string, error) {
	if opts.warpModel < 0 || opts.warpModel > maxWarpModel {
		return "", errors.Wrapf(errUsage, "warp model %d is not in [0..%d]", opts.warpModel, maxWarpModel)
	}
	if opts.trackerType < 0 || opts.trackerType > maxTrackerType {
		return "", errors.Wrapf(errUsage, "tracker type %d is not in [0..%d]", opts.trackerType, maxTrackerType)
	}
	if opts.lastFrame < 0 {
		return "", errors.Wrapf(errUsage, "last frame %d is negative", opts.lastFrame)
	}
	root := opts.inputPath
	if root == "" {
		root = getenv(inputPathEnv)
	}
	if root == "" {
		return "", errors.Wrapf(errUsage, "no input path, use -i or set %s", inputPathEnv)
	}
	return filepath.Join(root, sequenceSubdir, sequencePattern), nil
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Track a dot in the %s sequence.\n\nUsage: %s [options]\n", sequenceSubdir, fs.Name())
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// parseArgs registers the driver flags on fs and parses args. -help is reported as help,
// anything else flag rejects as errUsage
func parseArgs(fs *flag.FlagSet, args []string) (*options, error) {
	opts := registerFlags(fs)
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			opts.help = true
			return opts, nil
		}
		return nil, errors.Wrap(errUsage, err.Error())
	}
	if fs.NArg() > 0 {
		return nil, errors.Wrapf(errUsage, "unexpected arguments %v", fs.Args())
	}
	return opts, nil
}

// runMain runs the driver and returns the process exit code
func runMain(fs *flag.FlagSet, args []string, getenv func(string) string, stdin io.Reader, stdout, stderr io.Writer) int {
	defer glog.Flush()
	opts, err := parseArgs(fs, args)
	if err != nil {
		usage(fs, stderr)
		fmt.Fprintf(stderr, "\nERROR: %v\n", err)
		return -1
	}
	if opts.help {
		usage(fs, stdout)
		return 0
	}
	pattern, err := opts.validate(getenv)
	if err != nil {
		usage(fs, stderr)
		fmt.Fprintf(stderr, "\nERROR: %v\n", err)
		return -1
	}
	if err := run(opts, pattern, stdin); err != nil {
		glog.Errorf("dottrack: %v", err)
		return -1
	}
	return 0
}

func main() {
	// glog flags are already registered on flag.CommandLine, Init keeps them
	flag.CommandLine.Init(filepath.Base(os.Args[0]), flag.ContinueOnError)
	os.Exit(runMain(flag.CommandLine, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}
