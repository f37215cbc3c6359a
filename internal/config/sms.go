package config

type SMSConfig struct {
	// Provider is sns, twilio or none.
	Provider string        `yaml:"provider"`
	SNS      *SNSConfig    `yaml:"sns"`
	Twilio   *TwilioConfig `yaml:"twilio"`
}

type SNSConfig struct {
	Region   string `yaml:"region"`
	SenderID string `yaml:"sender_id"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

func loadSMSConfig() *SMSConfig {
	return &SMSConfig{
		Provider: getEnv("SMS_PROVIDER", "none"),
		SNS: &SNSConfig{
			Region:   getEnv("AWS_SNS_REGION", "us-east-1"),
			SenderID: getEnv("AWS_SNS_SENDER_ID", "RIDEPOOL"),
		},
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},
	}
}
