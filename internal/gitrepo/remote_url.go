package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitProtocolPrefixConstant           = "git://"
	fileProtocolPrefixConstant          = "file://"
	protocolSeparatorConstant           = "://"
	sshUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	missingHostMessageConstant          = "remote url has no host"
	missingPathMessageConstant          = "remote url has no repository path"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
	whitespaceMessageConstant           = "remote url contains whitespace"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolSCP   RemoteProtocol = RemoteProtocol("scp")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
	RemoteProtocolFile  RemoteProtocol = RemoteProtocol("file")
)

var protocolPrefixes = []struct {
	prefix   string
	protocol RemoteProtocol
}{
	{prefix: sshProtocolPrefixConstant, protocol: RemoteProtocolSSH},
	{prefix: httpsProtocolPrefixConstant, protocol: RemoteProtocolHTTPS},
	{prefix: httpProtocolPrefixConstant, protocol: RemoteProtocolHTTP},
	{prefix: gitProtocolPrefixConstant, protocol: RemoteProtocolGit},
	{prefix: fileProtocolPrefixConstant, protocol: RemoteProtocolFile},
}

// RemoteURL represents a structured git remote location. Path keeps every
// segment below the host, so nested module directories survive parsing.
type RemoteURL struct {
	Protocol RemoteProtocol
	User     string
	Host     string
	Path     string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts a textual remote location into a structured representation.
// Accepted forms are ssh://, https://, http://, git://, file:// URLs and the scp-like user@host:path.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}
	if strings.ContainsAny(trimmedRemote, " \t\n") {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: whitespaceMessageConstant}
	}

	for _, candidate := range protocolPrefixes {
		if strings.HasPrefix(trimmedRemote, candidate.prefix) {
			return parseProtocolRemote(trimmedRemote, strings.TrimPrefix(trimmedRemote, candidate.prefix), candidate.protocol)
		}
	}
	if strings.Contains(trimmedRemote, protocolSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: unknownProtocolMessageConstant}
	}
	return parseSCPRemote(trimmedRemote)
}

func parseProtocolRemote(original string, remainder string, protocol RemoteProtocol) (RemoteURL, error) {
	if protocol == RemoteProtocolFile {
		path := strings.TrimSpace(remainder)
		if len(strings.Trim(path, pathSeparatorConstant)) == 0 {
			return RemoteURL{}, RemoteURLParseError{Input: original, Message: missingPathMessageConstant}
		}
		return RemoteURL{Protocol: protocol, Path: path}, nil
	}

	authority, path, hasPath := strings.Cut(remainder, pathSeparatorConstant)
	user := ""
	if userPart, hostPart, hasUser := strings.Cut(authority, sshUserDelimiterConstant); hasUser {
		user = userPart
		authority = hostPart
	}
	if len(authority) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: original, Message: missingHostMessageConstant}
	}
	trimmedPath := strings.Trim(path, pathSeparatorConstant)
	if !hasPath || len(trimmedPath) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: original, Message: missingPathMessageConstant}
	}
	return RemoteURL{Protocol: protocol, User: user, Host: authority, Path: trimmedPath}, nil
}

func parseSCPRemote(remote string) (RemoteURL, error) {
	authority, path, hasPath := strings.Cut(remote, scpPathDelimiterConstant)
	if !hasPath || strings.Contains(authority, pathSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	user := ""
	if userPart, hostPart, hasUser := strings.Cut(authority, sshUserDelimiterConstant); hasUser {
		user = userPart
		authority = hostPart
	}
	if len(authority) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: missingHostMessageConstant}
	}
	trimmedPath := strings.Trim(path, pathSeparatorConstant)
	if len(trimmedPath) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: missingPathMessageConstant}
	}
	return RemoteURL{Protocol: RemoteProtocolSCP, User: user, Host: authority, Path: trimmedPath}, nil
}

// FormatRemoteURL creates a textual remote URL from a structured representation.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	if len(strings.TrimSpace(remote.Path)) == 0 {
		return "", RemoteURLParseError{Input: remote.Host, Message: requiredValueMessageConstant}
	}

	if remote.Protocol == RemoteProtocolFile {
		return fileProtocolPrefixConstant + remote.Path, nil
	}
	if len(strings.TrimSpace(remote.Host)) == 0 {
		return "", RemoteURLParseError{Input: remote.Path, Message: requiredValueMessageConstant}
	}

	authority := remote.Host
	if len(remote.User) > 0 {
		authority = remote.User + sshUserDelimiterConstant + remote.Host
	}

	switch remote.Protocol {
	case RemoteProtocolSCP:
		return authority + scpPathDelimiterConstant + remote.Path, nil
	case RemoteProtocolSSH, RemoteProtocolHTTPS, RemoteProtocolHTTP, RemoteProtocolGit:
		return string(remote.Protocol) + protocolSeparatorConstant + authority + pathSeparatorConstant + remote.Path, nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}
