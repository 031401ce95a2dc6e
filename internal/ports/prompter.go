package ports

// Prompter reads free-text answers during interactive flows. Secret answers
// (2FA passwords) are read without terminal echo when possible.
type Prompter interface {
	Line(prompt string) (string, error)
	Secret(prompt string) (string, error)
}
