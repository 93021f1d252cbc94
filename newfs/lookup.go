package newfs

import (
	"fmt"
	"strings"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

func components(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// CalcLvl counts the components of path; the root is level 0. Empty
// components ("//", a trailing "/") do not count.
func CalcLvl(path string) int {
	return len(components(path))
}

// GetFname returns the last component of path.
func GetFname(path string) string {
	comps := components(path)
	if len(comps) == 0 {
		return ""
	}
	return comps[len(comps)-1]
}

// Lookup resolves an absolute path one component at a time from the root,
// loading inodes as it goes. It returns the deepest entry reached, whether
// the whole path matched, and whether the path names the root.
//
// When resolution stops early the entry returned is the last one reached: a
// regular file that still has components below it, or the directory in which
// a component was missing. Component names match stored names exactly; a
// prefix of a stored name is a miss. The returned entry's inode is always
// loaded.
func (fs *Fs) Lookup(path string) (*Dentry, bool, bool, error) {
	if err := fs.checkMounted(); err != nil {
		return nil, false, false, err
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false, false, fmt.Errorf("path `%s` is not absolute: %w",
			path, common.ErrInval)
	}
	comps := components(path)
	if len(comps) == 0 {
		if _, err := fs.hydrate(fs.root); err != nil {
			return nil, false, false, err
		}
		return fs.root, true, true, nil
	}

	cur := fs.root
	found := false
	for lvl, name := range comps {
		inode, err := fs.hydrate(cur)
		if err != nil {
			return nil, false, false, err
		}
		if !cur.IsDir() {
			util.DPrintf(3, "Lookup: `%s` not a dir at level %d\n", cur.Name, lvl)
			break
		}
		sub := fs.child(inode, name)
		if sub == nil {
			util.DPrintf(3, "Lookup: `%s` not found\n", name)
			break
		}
		cur = sub
		if lvl == len(comps)-1 {
			found = true
		}
	}
	if _, err := fs.hydrate(cur); err != nil {
		return nil, false, false, err
	}
	return cur, found, false, nil
}
