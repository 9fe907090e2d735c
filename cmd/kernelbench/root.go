// Copyright 2025 kernelbench Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/kernelbench/kernelbench/kb"
)

// errVerification makes the process exit non-zero after the results have
// been reported.
var errVerification = errors.New("verification failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kernelbench",
		Short:         "Benchmark dense matrix multiply, summation and Sobel kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			klog.V(1).InfoS("kernelbench", "level", kb.CurrentName(), "workers", kb.Workers())
		},
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		newDGEMMCmd(),
		newSumCmd(),
		newSobelCmd(),
		newAggregateCmd(),
		newLikwidCmd(),
		newCPUInfoCmd(),
		newVariantsCmd(),
	)
	return root
}

// signalContext is cancelled on SIGINT/SIGTERM so sweeps stop between
// problem sizes.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// seedValue is a pflag.Value for random seeds where 0 asks for a
// time-based seed.
type seedValue struct {
	seed *uint64
}

func (s seedValue) String() string {
	if s.seed == nil {
		return "0"
	}
	return strconv.FormatUint(*s.seed, 10)
}

func (s seedValue) Set(val string) error {
	v, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		return err
	}
	if v == 0 {
		v = uint64(time.Now().UnixNano())
	}
	*s.seed = v
	return nil
}

func (seedValue) Type() string { return "uint64" }

// addSeedFlag registers --seed; 0 (or leaving it unset) uses a time-based
// seed.
func addSeedFlag(fs *pflag.FlagSet, seed *uint64) {
	fs.Var(seedValue{seed}, "seed", "random seed, 0 for time based")
}

// createFile opens path for writing, creating parent directories.
func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, kb.NewIOError("createFile", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, kb.NewIOError("createFile", path, err)
	}
	return f, nil
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return kb.NewIOError("writeFile", path, err)
	}
	klog.InfoS("Wrote file", "path", path)
	return nil
}
