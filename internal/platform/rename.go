package platform

import "os"

// linkNoReplace publishes oldpath under newpath with a hard link, which the
// kernel refuses when newpath exists, then drops the old name.
func linkNoReplace(oldpath, newpath string) error {
	if err := os.Link(oldpath, newpath); err != nil {
		return err
	}
	_ = os.Remove(oldpath)
	return nil
}
