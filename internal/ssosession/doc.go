// ssosession
//
// Everything needed to talk to an existing AWS SSO session: resolving an
// sso enabled profile from the shared aws config, reading the access token
// cache that the external `aws sso login` command maintains, and the
// account, role and credential listing calls behind narrow interfaces.
//
// Nothing in this package writes state anywhere, credentials are handed
// back to the caller and dropped.
package ssosession
