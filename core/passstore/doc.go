// Package passstore reads a pass(1) password store.
//
// A store is a directory tree of gpg encrypted files. Each "*.gpg" file is a
// secret named by its path relative to the store root, without the extension
// ("web/github" for "web/github.gpg"). Secrets are decrypted with the gpg binary,
// which lets gpg-agent handle key unlocking.
//
// # Usage
//
//	store, err := passstore.Open(cfg.Store)
//	secrets, err := store.Secrets()
//
//	gpg := passstore.NewGPG(cfg.Store.GPGBinary)
//	body, err := gpg.Decrypt(ctx, secrets[0].Path)
//	defer body.Destroy()
//	password, _ := body.FirstLine()
package passstore
