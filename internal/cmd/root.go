package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/kartel/whygo/internal/cmd/config"
	"github.com/kartel/whygo/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "whygo",
	Short: "Kartel's 2026 WhyGO goal-setting client",
	Long: `WhyGO walks new people through onboarding, collects their individual
goals and shows how every goal ladders up to department and company
priorities.

Run 'whygo login' once, then 'whygo onboard' for the wizard or
'whygo dashboard' for progress and approvals.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/whygo/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().String("api-url", "", "WhyGO API base URL (overrides api.base_url)")
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))

	configcmd.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WHYGO")
	// Replace dots with underscores for nested keys in env vars
	// e.g., WHYGO_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
