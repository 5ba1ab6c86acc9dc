package cmd

import (
    "fmt"

    "github.com/spf13/cobra"

    "dossiers/internal/git"
    "dossiers/pkg/errors"
)

func newRemoteCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "remote [dir]",
        Short: "Show the hosted repository documents link to",
        Long: `Print the owner/name slug of the hosted repository. The repository setting in
dossiers.yaml wins over the git remote (origin, else the first remote by name).`,
        Args: cobra.MaximumNArgs(1),
        RunE: runRemote,
    }
}

func runRemote(cmd *cobra.Command, args []string) error {
    dir, err := projectDir(args)
    if err != nil {
        return err
    }
    cfg, err := loadSettings(cmd.Flags(), dir)
    if err != nil {
        return err
    }
    newLogger(cmd, cfg)

    raw := cfg.Repository
    origin := "config"
    if raw == "" {
        repo, err := git.OpenE(dir)
        if err != nil {
            return err
        }
        raw = repo.RemoteURL()
        origin = "remote"
        if raw == "" {
            return errors.New(errors.ErrCodeRemoteNotFound, "Repository has no remotes").
                WithContext("path", repo.Workdir()).
                WithSuggestions("Add a remote with 'git remote add origin <url>'", "Or set 'repository' in dossiers.yaml")
        }
    }

    hosted, ok := git.ParseHostedRepo(raw)
    if !ok {
        return errors.New(errors.ErrCodeRemoteUnparsable, "Cannot determine owner and name from repository URL").
            WithContext("url", raw).
            WithContext("source", origin)
    }

    fmt.Fprintln(cmd.OutOrStdout(), hosted.Slug())
    return nil
}
