package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/config"
	"github.com/mit-pdos/go-newfs/disk"
	"github.com/mit-pdos/go-newfs/newfs"
	"github.com/mit-pdos/go-newfs/util"
)

const defaultImageSize = 4 * 1024 * 1024

func options(ctx *cli.Context) (*config.Options, error) {
	opts, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("device") {
		opts.Device = ctx.String("device")
	}
	if ctx.IsSet("debug") {
		opts.Debug = ctx.Uint64("debug")
	}
	return opts, nil
}

// withFs mounts the configured device around f and unmounts afterward, so
// every command leaves the image consistent.
func withFs(f func(fs *newfs.Fs, ctx *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		opts, err := options(ctx)
		if err != nil {
			return err
		}
		fs, err := newfs.Open(opts)
		if err != nil {
			return fmt.Errorf("mounting `%s`: %w", opts.Device, err)
		}
		if err := f(fs, ctx); err != nil {
			fs.Unmount()
			return err
		}
		return fs.Unmount()
	}
}

func pathArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() < 1 {
		return "", fmt.Errorf("missing path argument")
	}
	return ctx.Args().First(), nil
}

func mkfs(ctx *cli.Context) error {
	opts, err := options(ctx)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	d, err := disk.Create(opts.Device, ctx.Uint64("size"))
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := wipeSuper(d); err != nil {
		d.Close()
		return err
	}
	fs, err := newfs.Mount(d)
	if err != nil {
		return fmt.Errorf("formatting `%s`: %w", opts.Device, err)
	}
	st, err := fs.Statfs()
	if err != nil {
		fs.Unmount()
		return err
	}
	fmt.Printf("%s: %d inodes, %d blocks of %d bytes\n",
		opts.Device, st.Inodes, st.Blocks, st.BlockSize)
	return fs.Unmount()
}

// wipeSuper clears the first I/O unit so the next mount lays out a fresh
// file system even over an old one.
func wipeSuper(d disk.Device) error {
	szIo, err := d.Ioctl(disk.IOC_REQ_DEVICE_IO_SZ)
	if err != nil {
		return err
	}
	if _, err := d.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return d.Write(make([]byte, szIo))
}

func info(fs *newfs.Fs, ctx *cli.Context) error {
	st, err := fs.Statfs()
	if err != nil {
		return err
	}
	s := fs.Super()
	fmt.Printf("io size:      %d\n", s.SzIo)
	fmt.Printf("block size:   %d\n", st.BlockSize)
	fmt.Printf("inodes:       %d (%d free)\n", st.Inodes, st.FreeInodes)
	fmt.Printf("data blocks:  %d (%d free)\n", st.Blocks, st.FreeBlocks)
	fmt.Printf("used bytes:   %d\n", st.UsedBytes)
	fmt.Printf("max file:     %d\n", st.MaxFileSize)
	fmt.Printf("max name:     %d\n", st.MaxNameLen)
	fmt.Printf("inode table:  %d blocks at %d\n", s.InodeBlks, s.InodeOfs)
	fmt.Printf("data region:  %d\n", s.DataOfs)
	return nil
}

func ls(fs *newfs.Fs, ctx *cli.Context) error {
	path := "/"
	if ctx.NArg() > 0 {
		path = ctx.Args().First()
	}
	a, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if a.Ftype != common.DIR {
		fmt.Printf("%4s %5d %8d %s\n", a.Ftype, a.Ino, a.Size, path)
		return nil
	}
	attrs, err := fs.ReadDir(path)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		fmt.Printf("%4s %5d %8d %s\n", a.Ftype, a.Ino, a.Size, a.Name)
	}
	return nil
}

func create(ftype common.FileType) func(*newfs.Fs, *cli.Context) error {
	return func(fs *newfs.Fs, ctx *cli.Context) error {
		path, err := pathArg(ctx)
		if err != nil {
			return err
		}
		_, err = fs.Create(path, ftype)
		return err
	}
}

func put(fs *newfs.Fs, ctx *cli.Context) error {
	path, err := pathArg(ctx)
	if err != nil {
		return err
	}
	var data []byte
	if src := ctx.String("from"); src != "" && src != "-" {
		data, err = ioutil.ReadFile(src)
	} else {
		data, err = ioutil.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	d, found, _, err := fs.Lookup(path)
	if err != nil {
		return err
	}
	if !found {
		if d, err = fs.Create(path, common.REGFILE); err != nil {
			return err
		}
	}
	if err := fs.Truncate(d.Inode, 0); err != nil {
		return err
	}
	_, err = fs.WriteData(d.Inode, 0, data)
	return err
}

func cat(fs *newfs.Fs, ctx *cli.Context) error {
	path, err := pathArg(ctx)
	if err != nil {
		return err
	}
	d, found, _, err := fs.Lookup(path)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("`%s`: %w", path, common.ErrNotFound)
	}
	b, err := fs.ReadData(d.Inode, 0, d.Inode.Size)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(b)
	return err
}

func rm(fs *newfs.Fs, ctx *cli.Context) error {
	path, err := pathArg(ctx)
	if err != nil {
		return err
	}
	return fs.Remove(path)
}

func main() {
	log := util.Logger()
	log.SetOutput(os.Stderr)

	app := &cli.App{
		Name:  "newfs",
		Usage: "format and inspect newfs disk images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML file with mount options",
				EnvVars: []string{"NEWFS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "disk image or block device",
			},
			&cli.Uint64Flag{
				Name:  "debug",
				Usage: "highest trace level to print",
			},
		},
		Commands: []*cli.Command{{
			Name:  "mkfs",
			Usage: "create an image and lay out an empty file system on it",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:  "size",
					Usage: "image size in bytes",
					Value: defaultImageSize,
				},
			},
			Action: mkfs,
		}, {
			Name:   "info",
			Usage:  "print the superblock and usage",
			Action: withFs(info),
		}, {
			Name:      "ls",
			Usage:     "list a directory",
			ArgsUsage: "[path]",
			Action:    withFs(ls),
		}, {
			Name:      "mkdir",
			Usage:     "create a directory",
			ArgsUsage: "path",
			Action:    withFs(create(common.DIR)),
		}, {
			Name:      "touch",
			Usage:     "create an empty file",
			ArgsUsage: "path",
			Action:    withFs(create(common.REGFILE)),
		}, {
			Name:      "put",
			Usage:     "copy a local file (or stdin) into the image",
			ArgsUsage: "path",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "from",
					Usage: "local file to read, - for stdin",
				},
			},
			Action: withFs(put),
		}, {
			Name:      "cat",
			Usage:     "print a file",
			ArgsUsage: "path",
			Action:    withFs(cat),
		}, {
			Name:      "rm",
			Aliases:   []string{"remove"},
			Usage:     "remove a file or a directory tree",
			ArgsUsage: "path",
			Action:    withFs(rm),
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
