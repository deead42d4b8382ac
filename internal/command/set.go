package command

type SetCommand struct{}

func (c *SetCommand) Name() string { return "set" }
func (c *SetCommand) Description() string {
	return "Set a configuration field (general_voice_channel_id, notify_channel_id, game_close_grace_period_seconds, admin_role_id)"
}
func (c *SetCommand) Usage() string      { return "set <field> <value>" }
func (c *SetCommand) RequireAdmin() bool { return true }

func (c *SetCommand) Run(ctx *Context) error {
	if len(ctx.Args) != 2 {
		return ctx.Reply("Usage: " + c.Usage())
	}
	field, value := ctx.Args[0], ctx.Args[1]

	switch field {
	case "general_voice_channel_id", "notify_channel_id":
		if value == "none" {
			value = ""
			break
		}
		id, ok := parseChannel(value)
		if !ok {
			return ctx.Reply("Invalid channel: " + value)
		}
		value = id
	case "admin_role_id":
		id, ok := parseRoleMention(value)
		if !ok {
			return ctx.Reply("Invalid role: " + value)
		}
		value = id
	}

	done, err := ctx.Store.Set(field, value)
	if err != nil {
		return err
	}
	if !done {
		return ctx.Reply("Unknown field or invalid value: " + field)
	}
	return ctx.Reply("Set!")
}
