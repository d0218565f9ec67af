package main

import (
	"os"

	"github.com/JerryBerry12/glare-core-sub000/cmd"
	"github.com/JerryBerry12/glare-core-sub000/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "glare-kdtree"
	app.Usage = "build and query kd-trees for ray/triangle intersection"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build kd-trees for meshes",
			Description: `
Parse one or more meshes (wavefront .obj, .gltf or .glb), partition their
triangles into a kd-tree using the surface area heuristic and display the
build statistics.

If a cache directory is specified, trees are stored there keyed by the
checksum of the mesh geometry and reused by later invocations.`,
			ArgsUsage: "mesh1.obj mesh2.glb ...",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "force",
					Usage: "rebuild trees even if a cache entry exists",
				},
			}, cmd.TreeFlags...),
			Action: cmd.BuildTrees,
		},
		{
			Name:      "info",
			Usage:     "display information about a cached tree",
			ArgsUsage: "mesh.obj",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "cache-dir",
					Usage: "directory for persisted trees",
				},
			},
			Action: cmd.ShowTreeInfo,
		},
		{
			Name:      "trace",
			Usage:     "trace a single ray",
			ArgsUsage: "mesh.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "origin",
					Value: "0,0,0",
					Usage: "ray origin as x,y,z",
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "0,0,1",
					Usage: "ray direction as x,y,z; normalized before tracing",
				},
				cli.Float64Flag{
					Name:  "max-distance",
					Usage: "max hit distance (default: unbounded)",
				},
				cli.StringFlag{
					Name:  "mode",
					Value: "nearest",
					Usage: "query mode: nearest, occlusion or all",
				},
			}, cmd.TreeFlags...),
			Action: cmd.TraceRay,
		},
		{
			Name:  "verify",
			Usage: "compare tree queries against brute force queries",
			Description: `
Trace random rays against the tree of a mesh and against every triangle of
the mesh and report any disagreement between the two.`,
			ArgsUsage: "mesh.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 10000,
					Usage: "number of rays to trace",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 4,
					Usage: "number of concurrent workers",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random number generator seed",
				},
			}, cmd.TreeFlags...),
			Action: cmd.VerifyTree,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("glare").Error(err)
		os.Exit(1)
	}
}
