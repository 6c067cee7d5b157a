package email

// Config holds the outbound mail settings. The Postmark tokens are optional
// so that development setups can write mail to disk instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"EMAIL_SENDER"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"tmp/mail"`
}
