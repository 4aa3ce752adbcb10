package publisher

import "os"

const (
	EnvAccessToken = "ACCESS_TOKEN"
	EnvPersonURN   = "PERSON_URN"
)

// Credentials authenticate posts against the publishing API.
type Credentials struct {
	AccessToken string
	AuthorURN   string
}

func (c Credentials) missing() []string {
	var missing []string

	if c.AccessToken == "" {
		missing = append(missing, EnvAccessToken)
	}

	if c.AuthorURN == "" {
		missing = append(missing, EnvPersonURN)
	}

	return missing
}

// CredentialSource is consulted on every publish, so credentials may be
// configured after startup.
type CredentialSource func() Credentials

func StaticCredentials(creds Credentials) CredentialSource {
	return func() Credentials {
		return creds
	}
}

// EnvCredentials reads ACCESS_TOKEN and PERSON_URN from the environment.
func EnvCredentials() CredentialSource {
	return func() Credentials {
		return Credentials{
			AccessToken: os.Getenv(EnvAccessToken),
			AuthorURN:   os.Getenv(EnvPersonURN),
		}
	}
}

// FirstConfigured merges sources field by field, earlier sources winning.
func FirstConfigured(sources ...CredentialSource) CredentialSource {
	return func() Credentials {
		var creds Credentials

		for _, source := range sources {
			c := source()

			if creds.AccessToken == "" {
				creds.AccessToken = c.AccessToken
			}

			if creds.AuthorURN == "" {
				creds.AuthorURN = c.AuthorURN
			}
		}

		return creds
	}
}
