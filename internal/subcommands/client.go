package subcommands

import (
	"context"

	"github.com/sinclairtarget/git-kudos/internal/git"
)

// Configures a git client from the repository containing path. Outside a
// repository we still return a usable client; its queries will fail per file.
func newClient(ctx context.Context, path string, maxBlameBytes int64) git.Client {
	client, err := git.NewClient(ctx, path, maxBlameBytes)
	if err != nil {
		logger().Warn("could not read repository configuration", "err", err)
	}

	logger().Debug(
		"configured git client",
		"workdir",
		client.WorkDir,
		"mailmap",
		client.UseMailmap,
		"ignoreRevs",
		client.IgnoreRevsFile,
	)

	return client
}
