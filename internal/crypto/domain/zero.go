package domain

// Zero overwrites b with zeros. Used on temporary copies of key material.
func Zero(b []byte) {
	clear(b)
}
