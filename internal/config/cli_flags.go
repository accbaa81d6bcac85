package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("proxy", "", "Comma separated HTTP/SOCKS5 proxies for page fetches (e.g., http://localhost:8080)")
	cmd.PersistentFlags().Duration("timeout", DefaultHTTPTimeout, "Set hard timeout for requests")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().String("api-key", "", "SerpApi key (overrides the stored key)")
	cmd.PersistentFlags().String("render", "", "Page fetch mode: auto, static or browser")
	cmd.PersistentFlags().Bool("no-page", false, "Never fetch the product page directly")
	cmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	cmd.PersistentFlags().String("planner-file", "", "Content planner JSON file")
}
