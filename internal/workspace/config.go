package workspace

type Config struct {
	// Root is the configuration directory served by the studio.
	Root string
}
