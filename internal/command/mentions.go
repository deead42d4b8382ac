package command

import "regexp"

var (
	roleMentionRe    = regexp.MustCompile(`^<@&(\d+)>$`)
	userMentionRe    = regexp.MustCompile(`^<@!?(\d+)>$`)
	channelMentionRe = regexp.MustCompile(`^<#(\d+)>$`)
	bareIDRe         = regexp.MustCompile(`^\d+$`)
)

// parseRoleMention extracts a role ID from a <@&123> mention.
func parseRoleMention(arg string) (string, bool) {
	if m := roleMentionRe.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	return "", false
}

// parseUserMention extracts a user ID from a <@123> or <@!123> mention.
func parseUserMention(arg string) (string, bool) {
	if m := userMentionRe.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	return "", false
}

// parseChannel accepts either a <#123> mention or a bare channel ID.
func parseChannel(arg string) (string, bool) {
	if m := channelMentionRe.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if bareIDRe.MatchString(arg) {
		return arg, true
	}
	return "", false
}
