// Package cmd runs local commands with stderr folded into errors.
//
// cspace shells out to gh, infocmp and sh rather than linking libraries,
// so the user's own authentication and terminal setup apply.
//
//	out, err := cmd.OutputContext(ctx, "", "infocmp", "-x", "xterm-ghostty")
//	if err != nil {
//	    // err is the trimmed stderr of infocmp when it printed any
//	}
//
// Commands are traced through the context logger in verbose mode.
package cmd
