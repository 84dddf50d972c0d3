package subcommands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/sinclairtarget/git-kudos/internal/format"
	"github.com/sinclairtarget/git-kudos/internal/identity"
)

// Lists the canonical identities found in the history of the given paths,
// along with every name each one has committed under.
func Authors(ctx context.Context, w io.Writer, paths []string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"authors\": %w", err)
		}
	}()

	logger().Debug("called authors()", "paths", paths)

	if len(paths) == 0 {
		paths = []string{"."}
	}

	client := newClient(ctx, paths[0], 0)

	records, err := client.AuthorRecords(ctx, paths)
	if err != nil {
		if len(records) == 0 {
			return err
		}
		logger().Warn("some author records could not be read", "err", err)
	}

	registry := identity.Build(slices.Values(records))

	keys := []string{}
	for id := range registry.All() {
		keys = append(keys, id.Key)
	}
	registry.SortByName(keys)

	bw := bufio.NewWriter(w)
	for _, key := range keys {
		id, _ := registry.Lookup(key)
		fmt.Fprintf(bw, "%s %s\n", registry.DisplayName(key), format.GitEmail(key))

		aliases := id.Aliases()
		if len(aliases) > 1 {
			for _, alias := range aliases[1:] {
				fmt.Fprintf(bw, "    %s\n", alias)
			}
		}
	}

	return bw.Flush()
}
