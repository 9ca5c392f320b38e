package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Anthanoess/task-app/internal/client"
)

const (
	configName = ".taskboard"
	envPrefix  = "TASKBOARD"
	defaultURL = "http://localhost:8080"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "taskboard drives the team task board from the terminal.",
		Long:          "taskboard logs in to the task board API, manages sprints and tasks, and moves cards between columns.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.taskboard.yaml)")
	flags.String("url", defaultURL, "base URL of the task board API")
	flags.String("token", "", "bearer token (overrides the one saved by login)")
	_ = a.v.BindPFlag("url", flags.Lookup("url"))
	_ = a.v.BindPFlag("token", flags.Lookup("token"))

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newUsersCmd(a),
		newSprintsCmd(a),
		newTasksCmd(a),
		newBoardCmd(a),
		newMoveCmd(a),
		newBatchCmd(a),
	)
	return root
}

// initConfig reads the config file and TASKBOARD_* environment variables.
func (a *app) initConfig() error {
	_ = godotenv.Load()

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	path, err := a.configPath()
	if err != nil {
		return err
	}
	a.v.SetConfigFile(path)
	a.v.SetConfigType("yaml")

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func (a *app) configPath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// saveSession writes the token and role next to the other settings.
func (a *app) saveSession(token, role string) (string, error) {
	path, err := a.configPath()
	if err != nil {
		return "", err
	}
	a.v.Set("token", token)
	a.v.Set("role", role)
	if err := a.v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config %s: %w", path, err)
	}
	return path, nil
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString("url"), client.WithToken(a.v.GetString("token")))
}

// authedClient refuses to run without a token so the user gets a hint instead of a bare 401.
func (a *app) authedClient() (*client.Client, error) {
	if a.v.GetString("token") == "" {
		return nil, errors.New("not logged in: run `taskboard login` or pass --token")
	}
	return a.client(), nil
}
