package telegram

// Config holds Telegram channel configuration.
type Config struct {
	BotToken     string
	AllowedUsers []int64 // empty = allow everyone
}

// allowed reports whether a Telegram user id may talk to the bot.
func (c *Config) allowed(id int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, uid := range c.AllowedUsers {
		if uid == id {
			return true
		}
	}
	return false
}
