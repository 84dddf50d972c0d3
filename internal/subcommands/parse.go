package subcommands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/sinclairtarget/git-kudos/internal/git"
	"github.com/sinclairtarget/git-kudos/internal/identity"
)

// Prints each line of a file's blame as the canonical author it counts toward,
// for debugging.
//
//	1	bob@mail.com	Bob@Mail.com
func Parse(
	ctx context.Context,
	w io.Writer,
	path string,
	maxBlameBytes int64,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"parse\": %w", err)
		}
	}()

	logger().Debug("called parse()", "path", path)

	client := newClient(ctx, path, maxBlameBytes)

	text, err := client.Blame(ctx, path)
	if err != nil {
		return err
	}

	localUserEmail, err := client.UserEmail(ctx)
	if err != nil {
		logger().Warn("could not get local user email", "err", err)
	}

	// Resolving does not need any identities, only the local user
	registry := identity.Build(nil)

	bw := bufio.NewWriter(w)
	line := 0
	for a := range git.ParseBlameText(text) {
		line += 1
		fmt.Fprintf(
			bw,
			"%d\t%s\t%s\n",
			line,
			registry.Resolve(a.Email, localUserEmail),
			a.Email,
		)
	}

	return bw.Flush()
}
