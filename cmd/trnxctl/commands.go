package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coreframe/trnx/namespace"
	"github.com/coreframe/trnx/port"
	"github.com/coreframe/trnx/wire"
)

func graphFlag(cmd *cobra.Command) *string {
	return cmd.Flags().String("graph", "", "path to a graph definition JSON file (required)")
}

func requireGraphFlag(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("graph")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("--graph is required")
	}
	return path, nil
}

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start_new: validate a graph definition's name and plugin/edge wiring up front",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, logrus.StandardLogger())
			if err != nil {
				return err
			}
			defer f.Shutdown()
			fmt.Printf("graph %q started, %d plugin(s) declared, %d edge(s) declared\n", def.Name, len(def.Plugins), len(def.Edges))
			return nil
		},
	}
	graphFlag(cmd)
	return cmd
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "load_plugin: load every plugin package named in a graph definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, logrus.StandardLogger())
			if err != nil {
				return err
			}
			defer f.Shutdown()
			fmt.Printf("loaded %d plugin(s)\n", len(def.Plugins))
			return nil
		},
	}
	graphFlag(cmd)
	return cmd
}

func newConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "connect: wire every edge named in a graph definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, logrus.StandardLogger())
			if err != nil {
				return err
			}
			defer f.Shutdown()
			fmt.Printf("connected %d edge(s)\n", len(def.Edges))
			return nil
		},
	}
	graphFlag(cmd)
	return cmd
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "build: materialize regions, topologically sort, and verify the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, logrus.StandardLogger())
			if err != nil {
				return err
			}
			defer f.Shutdown()
			if err := f.Build(); err != nil {
				return err
			}
			fmt.Printf("build order: %s\n", strings.Join(f.Order(), " -> "))
			return nil
		},
	}
	graphFlag(cmd)
	return cmd
}

func newRunCmd(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run: build and execute the tick loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, log)
			if err != nil {
				return err
			}
			defer f.Shutdown()
			if err := f.Build(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-quit
				log.Info("trnxctl: signal received, stopping after current plugin")
				cancel()
			}()

			return f.Run(ctx)
		},
	}
	graphFlag(cmd)
	return cmd
}

func newShutdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "shutdown: build a graph definition, then immediately release its regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, logrus.StandardLogger())
			if err != nil {
				return err
			}
			if err := f.Build(); err != nil {
				f.Shutdown()
				return err
			}
			f.Shutdown()
			fmt.Println("shutdown complete, all regions released")
			return nil
		},
	}
	graphFlag(cmd)
	return cmd
}

func newListRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-regions",
		Short: "list-regions: build a graph definition and list its materialized regions grouped by producer class",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireGraphFlag(cmd)
			if err != nil {
				return err
			}
			def, err := loadGraphDef(path)
			if err != nil {
				return err
			}
			f, err := bootstrap(def, logrus.StandardLogger())
			if err != nil {
				return err
			}
			defer f.Shutdown()
			if err := f.Build(); err != nil {
				return err
			}

			ns := namespace.New()
			regions := ns.Create("regions")
			for _, owner := range f.RegionOwners() {
				regions.Create(owner.Producer).Attach(owner.OutPort, owner.Name)
			}

			producers := regions.ChildNames()
			sort.Strings(producers)
			for _, producer := range producers {
				child := regions.Child(producer)
				ports := child.Keys()
				sort.Strings(ports)
				for _, p := range ports {
					name, _ := child.Get(p)
					fmt.Printf("%s.%s -> %v\n", producer, p, name)
				}
			}
			return nil
		},
	}
	graphFlag(cmd)
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var category, outDir string
	cmd := &cobra.Command{
		Use:   "template <plugin-name>",
		Short: "template: scaffold a new plugin package directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := templateGenerate(args[0], category, outDir)
			if err != nil {
				return err
			}
			fmt.Printf("scaffolded %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "strategy", "plugin category (exchange, data, indicator, feature, signal, strategy, model)")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to create the plugin package under")
	return cmd
}

func newInspectRegionCmd() *cobra.Command {
	var shapeStr, elemStr string
	cmd := &cobra.Command{
		Use:   "inspect-region <name>",
		Short: "inspect-region: CBOR-encode a point-in-time snapshot of a shared region to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := parseShape(shapeStr)
			if err != nil {
				return err
			}
			elem, err := port.ParseElemType(elemStr)
			if err != nil {
				return err
			}
			return wire.Snapshot(os.Stdout, args[0], shape, elem)
		},
	}
	cmd.Flags().StringVar(&shapeStr, "shape", "", "comma-separated region shape, e.g. 3,4 (required)")
	cmd.Flags().StringVar(&elemStr, "elem", "f64", "region element type (f32, f64, i32, i64, u8)")
	cmd.MarkFlagRequired("shape")
	return cmd
}

func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	shape := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid shape dimension %q: %w", p, err)
		}
		shape[i] = n
	}
	return shape, nil
}
