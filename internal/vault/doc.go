// Package vault reads test passwords from a HashiCorp Vault KV v2 secret.
//
// Each key of the secret is a login and its value the password:
//
//	vault kv put secret/authtester/users calvin=clv-pass hobbes=hbs-pass
//
// The passwords are then loaded into an auth.Policy with SeedPasswords.
package vault
