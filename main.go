package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/friendwu/qubicly/config"
	"github.com/urfave/cli/v2"
)

func main() {
	defaultNode := os.Getenv("QUBIC_NODE")
	if defaultNode == "" {
		defaultNode = "127.0.0.1"
	}
	defaultPort := config.DefaultNodePort
	if p := os.Getenv("QUBIC_NODE_PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			defaultPort = v
		}
	}

	app := cli.NewApp()
	app.Name = "qubicly"
	app.Usage = "Talk to a Qubic computor over its native protocol."
	app.Version = config.BuildVersion
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "node",
			Aliases: []string{"n"},
			Value:   defaultNode,
			Usage:   "the node address, and the default value is read from environment variable QUBIC_NODE",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   defaultPort,
			Usage:   "the node port",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "the configuration file",
		},
	}
	app.EnableBashCompletion = true
	app.Commands = []*cli.Command{
		{
			Name:   "tickinfo",
			Usage:  "Print the node's current tick",
			Action: tickInfoCmd,
		},
		{
			Name:   "systeminfo",
			Usage:  "Print the node's epoch and supply state",
			Action: systemInfoCmd,
		},
		{
			Name:   "balance",
			Usage:  "Print the spectrum record of an identity",
			Action: balanceCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "identity",
					Usage: "the 60 character identity",
				},
			},
		},
		{
			Name:   "assets",
			Usage:  "Print the issued, owned and possessed assets of an identity",
			Action: assetsCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "identity",
					Usage: "the 60 character identity",
				},
			},
		},
		{
			Name:   "computors",
			Usage:  "Print the epoch committee",
			Action: computorsCmd,
		},
		{
			Name:   "tickdata",
			Usage:  "Print the proposed payload of a tick",
			Action: tickDataCmd,
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "tick",
					Usage: "the tick number",
				},
			},
		},
		{
			Name:   "ticktransactions",
			Usage:  "Print the transactions of a tick",
			Action: tickTransactionsCmd,
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "tick",
					Usage: "the tick number",
				},
			},
		},
		{
			Name:   "quorum",
			Usage:  "Print the committee votes on a tick",
			Action: quorumCmd,
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "tick",
					Usage: "the tick number",
				},
			},
		},
		{
			Name:   "txstatus",
			Usage:  "Print which transactions of a tick moved money",
			Action: txStatusCmd,
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "tick",
					Usage: "the tick number",
				},
			},
		},
		{
			Name:   "send",
			Usage:  "Sign and broadcast a transfer",
			Action: sendCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "seed",
					Usage: "the 55 character seed of the sender",
				},
				&cli.StringFlag{
					Name:  "destination",
					Usage: "the 60 character identity of the receiver",
				},
				&cli.Int64Flag{
					Name:  "amount",
					Usage: "the amount in qu",
				},
				&cli.UintFlag{
					Name:  "offset",
					Value: 20,
					Usage: "ticks between now and the scheduled transfer",
				},
			},
		},
		{
			Name:   "createaddress",
			Usage:  "Generate a random seed and its identity",
			Action: createAddressCmd,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
