// Package hooks runs the user's stage hooks with placeholder substitution.
//
// Hooks are opaque shell commands from config, grouped by stage. Local
// stages run through "sh -c" on this machine; remote stages run in a
// login shell inside the codespace, in /workspaces/<repo-name>, with the
// resolved env exports prefixed.
//
// # Placeholder Substitution
//
//   - {repo}: owner/name
//   - {repo-name}: name without the owner
//   - {branch}: branch being checked out
//   - {codespace}: codespace name (empty before creation)
//   - {stage}: the running stage
//
// Values are shell-quoted, so hooks must not add their own quotes:
//
//	local_post_ready = ["notify-send {codespace}"]
//
// Local hooks also see CSPACE_REPO, CSPACE_BRANCH, CSPACE_CODESPACE and
// CSPACE_STAGE in their environment.
//
// # Failure Handling
//
// Hooks in a stage run in order. [Runner.Run] stops at the first failure
// and returns a [*HookError]; [Runner.RunBestEffort] logs failures as
// warnings and continues.
package hooks
