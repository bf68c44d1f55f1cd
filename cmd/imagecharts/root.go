package main

import (
	"crypto/sha256"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/imagecharts"
	"github.com/adamwoolhether/imagecharts/client"
)

type rootOptions struct {
	configFile string
	envFile    string
	params     []string
}

func newRootCmd() *cobra.Command {
	var ro rootOptions

	root := &cobra.Command{
		Use:           "imagecharts",
		Short:         "Build and download image-charts.com charts",
		Long:          "Build chart URLs, signed when a secret and account id are set, and download the resulting images.",
		Version:       imagecharts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&ro.configFile, "config", "", "config file (default ./imagecharts.yaml)")
	pf.StringVar(&ro.envFile, "env-file", ".env", "dotenv file loaded before reading IMAGECHARTS_* variables")
	pf.String(keyProtocol, imagecharts.DefaultProtocol, "service protocol, http or https")
	pf.String(keyHost, imagecharts.DefaultHost, "service host")
	pf.Int(keyPort, imagecharts.DefaultPort, "service port")
	pf.String(keyPath, imagecharts.DefaultPath, "chart endpoint path")
	pf.Duration(keyTimeout, imagecharts.DefaultTimeout, "request timeout, 0 disables it")
	pf.String(keySecret, "", "enterprise secret used to sign requests")
	pf.Int(keyRPS, 0, "maximum requests per second, 0 is unlimited")
	pf.BoolP(keyVerbose, "v", false, "log requests to stderr")
	pf.StringArrayVarP(&ro.params, "param", "p", nil, "chart parameter as key=value; key is a wire code or a key name, may repeat")

	for _, k := range imagecharts.Keys() {
		pf.String(string(k.Key), "", k.Doc)
	}

	root.AddCommand(
		newURLCmd(&ro),
		newFetchCmd(&ro),
		newDataURICmd(&ro),
		newKeysCmd(),
	)

	return root
}

func (ro *rootOptions) chart(cmd *cobra.Command) (*imagecharts.Chart, error) {
	v, err := loadConfig(cmd.Root().PersistentFlags(), ro.configFile, ro.envFile)
	if err != nil {
		return nil, err
	}

	return newChart(v, newLogger(v, cmd.ErrOrStderr()), ro.params)
}

func newURLCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the chart URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := ro.chart(cmd)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), chart.URL())
			return err
		},
	}
}

func newFetchCmd(ro *rootOptions) *cobra.Command {
	var (
		out      string
		progress bool
		checksum string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the chart image to a file, or to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := ro.chart(cmd)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				body, err := chart.Binary(cmd.Context())
				if err != nil {
					return err
				}

				_, err = cmd.OutOrStdout().Write(body)
				return err
			}

			var opts []client.DownloadOption
			if progress {
				opts = append(opts, client.WithProgress())
			}
			if checksum != "" {
				opts = append(opts, client.WithChecksum(sha256.New(), checksum))
			}

			return chart.File(cmd.Context(), out, opts...)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "destination file, stdout when empty or -")
	cmd.Flags().BoolVar(&progress, "progress", false, "log download progress")
	cmd.Flags().StringVar(&checksum, "sha256", "", "expected hex sha256 of the image")

	return cmd
}

func newDataURICmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "data-uri",
		Short: "Print the chart image as a base64 data URI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := ro.chart(cmd)
			if err != nil {
				return err
			}

			uri, err := chart.DataURI(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), uri)
			return err
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the known chart parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tDESCRIPTION")
			for _, k := range imagecharts.Keys() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", k.Key, k.Name, k.Doc)
			}

			return w.Flush()
		},
	}
}
