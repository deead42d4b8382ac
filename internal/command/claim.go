package command

type ClaimCommand struct{}

func (c *ClaimCommand) Name() string        { return "claim" }
func (c *ClaimCommand) Description() string { return "Bind the admin role using the startup claim code" }
func (c *ClaimCommand) Usage() string       { return "claim <code> @role" }
func (c *ClaimCommand) RequireAdmin() bool  { return false }

func (c *ClaimCommand) Run(ctx *Context) error {
	settings, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	if settings.Claimed() {
		return nil
	}

	if len(ctx.Args) < 2 {
		return ctx.Reply("Usage: " + c.Usage())
	}
	roleID, ok := parseRoleMention(ctx.Args[1])
	if !ok {
		return ctx.Reply("Invalid role: " + ctx.Args[1])
	}

	claimed, err := ctx.Store.Claim(ctx.Args[0], roleID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	return ctx.Reply("Voice Warden successfully claimed!")
}
