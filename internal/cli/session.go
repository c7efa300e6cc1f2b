package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/arloliu/rowlist"
	"github.com/arloliu/rowlist/alphabet"
	"github.com/arloliu/rowlist/source"
)

// Partition names the command knows how to feed.
const (
	partitionStarred  = "starred"
	partitionContacts = "contacts"
)

// session is the merged contacts list the commands render:
//
//	favorites (starred tiles) | filter row | contacts (with profile row)
type session struct {
	cfg  *Config
	file *source.File

	favorites *rowlist.Adapter
	contacts  *rowlist.Adapter
	merged    *rowlist.Merged

	loaders []*source.Loader
}

func isStarred(r rowlist.Row) bool { return r.Starred && !r.Profile }

// newSession builds the adapters and loaders for cfg. Nothing is loaded yet.
func newSession(cfg *Config, logger rowlist.Logger, metrics rowlist.MetricsCollector) (*session, error) {
	alpha := alphabet.ForLocale(language.Make(cfg.List.Locale))
	build := source.BuildOptions{Alphabet: alpha}

	s := &session{
		cfg: cfg,
		file: source.NewFile(cfg.Contacts,
			source.WithBuildOptions(build),
			source.WithSourceLogger(logger),
			source.WithSourceMetrics(metrics),
		),
	}

	favCfg := rowlist.Config{
		Partitions: []rowlist.PartitionConfig{
			{Name: partitionStarred, Title: "Favorites", HasHeader: true},
		},
		Locale:       cfg.List.Locale,
		Capabilities: cfg.List.Capabilities,
	}
	favorites, err := rowlist.NewAdapter(&favCfg, rowlist.WithLogger(logger), rowlist.WithMetrics(metrics))
	if err != nil {
		return nil, fmt.Errorf("failed to create favorites list: %w", err)
	}
	s.favorites = favorites

	listCfg := cfg.List
	listCfg.Capabilities.Checkboxes = true
	contacts, err := rowlist.NewAdapter(&listCfg,
		rowlist.WithLogger(logger),
		rowlist.WithMetrics(metrics),
		rowlist.WithAlphabet(alpha),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create contacts list: %w", err)
	}
	s.contacts = contacts

	starred := source.NewFiltered(s.file, isStarred, build)
	loaderOpts := []source.LoaderOption{
		source.WithConcurrency(cfg.List.Loader.Concurrency),
		source.WithTimeout(cfg.List.Loader.Timeout),
		source.WithSkipUnchanged(cfg.List.Loader.SkipUnchanged),
		source.WithLogger(logger),
		source.WithMetrics(metrics),
	}

	favLoader, err := source.NewLoader(favorites, append(loaderOpts, source.WithSource(partitionStarred, starred))...)
	if err != nil {
		s.Close()
		return nil, err
	}

	// bind the partitions of the contacts list that the command can feed
	bindings := slices.Clone(loaderOpts)
	for _, p := range listCfg.Partitions {
		switch {
		case p.IsStatic():
		case p.Name == partitionContacts:
			bindings = append(bindings, source.WithSource(p.Name, s.file))
		case p.Name == partitionStarred:
			bindings = append(bindings, source.WithSource(p.Name, starred))
		default:
			logger.Warn("no source for partition, it stays empty", "partition", p.Name)
		}
	}
	contactsLoader, err := source.NewLoader(contacts, bindings...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.loaders = []*source.Loader{favLoader, contactsLoader}

	mergedOpts := []rowlist.MergedOption{rowlist.WithMergedMetrics(metrics)}
	if cfg.FilterTitle != "" {
		mergedOpts = append(mergedOpts, rowlist.WithStaticRow(1, cfg.FilterTitle))
	}
	if listCfg.IndexedPartition != "" {
		mergedOpts = append(mergedOpts, rowlist.WithIndexedChild(1))
	}
	merged, err := rowlist.NewMerged([]rowlist.ListAdapter{favorites, contacts}, mergedOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.merged = merged

	return s, nil
}

// Load loads every partition once.
func (s *session) Load(ctx context.Context) error {
	var errs []error
	for _, l := range s.loaders {
		if err := l.Load(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Watch reloads the lists whenever the contacts file changes, until ctx is done.
func (s *session) Watch(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range s.loaders {
		g.Go(func() error {
			return l.Watch(gctx)
		})
	}

	return g.Wait()
}

// contactsPosition maps a merged position to a position of the contacts
// list, or -1.
func (s *session) contactsPosition(pos int) int {
	loc := s.merged.Locate(pos)
	if loc.Child != 1 {
		return -1
	}

	return loc.Local
}

// Close releases the adapters.
func (s *session) Close() {
	if s.merged != nil {
		s.merged.Close()
	}
	if s.contacts != nil {
		s.contacts.Close()
	}
	if s.favorites != nil {
		s.favorites.Close()
	}
}
