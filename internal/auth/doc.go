// Package auth holds the session credentials used for every request to the
// library site.
//
// The site authenticates through browser cookies copied from a logged-in
// session. A raw cookie header string is parsed into a CredentialSet, held
// by a Session and replaced wholesale whenever the crawler notices that the
// session has expired. Where new credentials come from is abstracted behind
// CredentialProvider so that the interactive prompt used by the CLI can be
// swapped for a fixed value or a scripted sequence.
//
// # Usage
//
//	session := auth.NewSession(auth.NewPromptProvider(os.Stdin, os.Stderr))
//	if err := session.Ensure(ctx); err != nil {
//	    return err
//	}
//	req.Header.Set("Cookie", session.Credentials().Header())
package auth
