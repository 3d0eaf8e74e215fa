package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/salmanbappi/extrepo/internal/catalog"
	"github.com/salmanbappi/extrepo/internal/config"
	"github.com/salmanbappi/extrepo/internal/generator"
	"github.com/salmanbappi/extrepo/internal/generator/html"
	"github.com/salmanbappi/extrepo/internal/generator/index"
	"github.com/salmanbappi/extrepo/internal/generator/repometa"
	"github.com/salmanbappi/extrepo/internal/models"
	"github.com/salmanbappi/extrepo/internal/scanner"
	"github.com/salmanbappi/extrepo/internal/signer"
	"github.com/salmanbappi/extrepo/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// mergeFlags holds raw flag values; they only override the config file when set.
type mergeFlags struct {
	remoteDir     string
	configPath    string
	gzip          bool
	gpgKey        string
	gpgPassphrase string
	name          string
	shortName     string
	website       string
	fingerprint   string
	defaultSig    string
}

// NewMergeCmd creates the merge command
func NewMergeCmd() *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "merge <deletions-json> <local-dir>",
		Short: "Merge a freshly built fragment into the repository",
		Long: `Deletes the artifacts of removed modules, copies the fragment's apk/ and
icon/ files into the repository, merges the fragment's index.min.json into
the persisted index.json and rewrites the published index files.

<deletions-json> is a JSON array of module names such as ["en.comix"].
A relative <local-dir> is resolved against the parent of the remote
directory.`,
		Example: `  extrepo merge '[]' repo
  extrepo merge '["en.likemanga"]' repo --remote-dir ./gh-pages --gzip`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, &flags, args)
			if err != nil {
				return err
			}

			logrus.Info("Starting repository merge...")
			logrus.Debugf("Deletions: %v, meta: %+v, gzip: %t, signed: %t",
				cfg.Deletions, cfg.Meta, cfg.Gzip, cfg.GPGKeyPath != "")

			return runMerge(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.remoteDir, "remote-dir", "r", ".", "Persisted repository directory")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file (default <remote-dir>/"+config.FileName+" if present)")
	cmd.Flags().BoolVar(&flags.gzip, "gzip", false, "Also write index.min.json.gz")

	// GPG signing flags
	cmd.Flags().StringVarP(&flags.gpgKey, "gpg-key", "k", "", "Path to GPG private key for signing index.min.json")
	cmd.Flags().StringVarP(&flags.gpgPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")

	// Repository metadata flags
	cmd.Flags().StringVar(&flags.name, "name", "", "Repository display name")
	cmd.Flags().StringVar(&flags.shortName, "short-name", "", "Repository short name")
	cmd.Flags().StringVar(&flags.website, "website", "", "Repository website")
	cmd.Flags().StringVar(&flags.fingerprint, "fingerprint", "", "Signing key fingerprint published in repo.json")
	cmd.Flags().StringVar(&flags.defaultSig, "default-sig", "", "Fingerprint set on entries without sig")

	return cmd
}

func buildConfig(cmd *cobra.Command, flags *mergeFlags, args []string) (*models.RepositoryConfig, error) {
	cfg := config.Defaults()

	deletions, err := parseDeletions(args[0])
	if err != nil {
		return nil, err
	}
	cfg.Deletions = deletions

	if flags.remoteDir == "" {
		return nil, models.NewError(models.ErrInvalidConfig, fmt.Errorf("remote-dir is required"))
	}
	remote, err := filepath.Abs(flags.remoteDir)
	if err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, fmt.Errorf("resolve remote-dir: %w", err))
	}
	cfg.RemoteDir = remote
	cfg.LocalDir = resolveLocalDir(remote, args[1])

	var file *config.File
	if flags.configPath != "" {
		file, err = config.Load(flags.configPath)
	} else {
		file, err = config.LoadOptional(filepath.Join(remote, config.FileName))
	}
	if err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, err)
	}
	file.Apply(&cfg)

	set := cmd.Flags().Changed
	if set("name") {
		cfg.Meta.Name = flags.name
	}
	if set("short-name") {
		cfg.Meta.ShortName = flags.shortName
	}
	if set("website") {
		cfg.Meta.Website = flags.website
	}
	if set("fingerprint") {
		cfg.Meta.SigningKeyFingerprint = flags.fingerprint
	}
	if set("default-sig") {
		cfg.DefaultSig = flags.defaultSig
	}
	cfg.Gzip = flags.gzip
	cfg.GPGKeyPath = flags.gpgKey
	cfg.GPGPassphrase = flags.gpgPassphrase

	return &cfg, nil
}

// parseDeletions decodes the JSON list of module names. Blank input means none.
func parseDeletions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var modules []string
	if err := json.Unmarshal([]byte(raw), &modules); err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, fmt.Errorf("deletions must be a JSON array of strings: %w", err))
	}

	out := modules[:0]
	for _, m := range modules {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

func resolveLocalDir(remote, local string) string {
	if filepath.IsAbs(local) {
		return filepath.Clean(local)
	}
	return filepath.Join(filepath.Dir(remote), local)
}

func runMerge(ctx context.Context, cfg *models.RepositoryConfig) error {
	logrus.Infof("Remote repository: %s", cfg.RemoteDir)
	logrus.Infof("Local fragment: %s", cfg.LocalDir)

	// Step 1: Check inputs before touching the repository
	if err := store.CheckFragment(cfg.LocalDir); err != nil {
		return err
	}
	local, err := catalog.ReadLocal(filepath.Join(cfg.LocalDir, index.MinIndexFile))
	if err != nil {
		return err
	}
	persisted, err := catalog.ReadPersisted(filepath.Join(cfg.RemoteDir, index.IndexFile))
	if err != nil {
		return err
	}
	if len(persisted) == 0 {
		logrus.Info("No persisted catalog, starting from an empty index")
	}
	logrus.Infof("Loaded %d persisted and %d local entries", len(persisted), len(local))

	var indexSigner signer.Signer
	if cfg.GPGKeyPath != "" {
		gpgSigner, err := signer.NewGPGSigner(cfg.GPGKeyPath, cfg.GPGPassphrase)
		if err != nil {
			return models.NewError(models.ErrSigning, fmt.Errorf("failed to initialize GPG signer: %w", err))
		}
		logrus.Infof("GPG signer initialized (%s)", gpgSigner.Fingerprint())
		indexSigner = gpgSigner
	}

	// Step 2: Merge catalogs and check them against every output
	merged := catalog.Merge(persisted, local, catalog.MergeOptions{
		Deletions:          cfg.Deletions,
		PlaceholderMarkers: cfg.PlaceholderMarkers,
		DefaultSig:         cfg.DefaultSig,
	})

	generators := []generator.Generator{
		index.NewGenerator(indexSigner),
		repometa.NewGenerator(),
		html.NewGenerator(),
	}
	for _, gen := range generators {
		if err := gen.ValidateEntries(merged); err != nil {
			return models.NewError(models.ErrOutput, fmt.Errorf("%s validation failed: %w", gen.Name(), err))
		}
	}

	// Step 3: Update artifacts
	st := store.New(cfg.RemoteDir)
	if err := st.EnsureLayout(); err != nil {
		return err
	}

	deleted, err := st.DeleteModules(cfg.Deletions, cfg.ApkPattern, cfg.IconPattern)
	if err != nil {
		return err
	}
	logrus.Infof("Deleted %d artifacts for %d modules", len(deleted), len(cfg.Deletions))

	copied, err := st.Import(ctx, cfg.LocalDir)
	if err != nil {
		return err
	}
	counts := make(map[scanner.ArtifactType]int)
	for _, a := range copied {
		counts[a.Type]++
	}
	logrus.Infof("Copied %d artifacts (%d apk, %d icon, %d other)",
		len(copied), counts[scanner.TypeApk], counts[scanner.TypeIcon], counts[scanner.TypeUnknown])

	if ok, err := st.CopyMarker(cfg.LocalDir); err != nil {
		return err
	} else if ok {
		logrus.Debugf("Copied %s", store.NoJekyll)
	}

	logDigests(persisted, merged)
	for _, m := range st.VerifyArtifacts(local) {
		logrus.Warnf("Artifact check failed for %s (%s): %s", m.Pkg, m.Apk, m.Reason)
	}

	// Step 4: Write published files
	for _, gen := range generators {
		if err := gen.Generate(ctx, cfg, merged); err != nil {
			var repoErr *models.RepoError
			if errors.As(err, &repoErr) {
				return err
			}
			return models.NewError(models.ErrOutput, fmt.Errorf("%s: %w", gen.Name(), err))
		}
	}

	logrus.Infof("Repository merge completed: %d entries", len(merged))
	return nil
}

func logDigests(before, after []models.Entry) {
	prev, err := catalog.Digest(before)
	if err != nil {
		logrus.Debugf("Cannot digest persisted catalog: %v", err)
		return
	}
	next, err := catalog.Digest(after)
	if err != nil {
		logrus.Debugf("Cannot digest merged catalog: %v", err)
		return
	}

	if prev == next {
		logrus.Info("Catalog unchanged")
		return
	}
	logrus.Infof("Catalog digest %s -> %s", prev[:12], next[:12])
}
