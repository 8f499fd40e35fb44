// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

// Package selfpipe implements the self-pipe trick: a non-blocking
// stream-socket pair used to turn asynchronous POSIX signal delivery into a
// byte the event loop can read back on its own readiness-polling backend,
// per sw_ev_signal_handler_/sw_ev_sinal_reach_ in the original sw_event.c.
package selfpipe

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Pipe is a pair of connected, non-blocking file descriptors: Write is
// written to from a signal handler (async-signal-safe, one byte at a time),
// Read is registered with a Backend for READ interest.
type Pipe struct {
	Read  int
	Write int
}

// New creates a non-blocking self-pipe via socketpair(AF_UNIX, SOCK_STREAM),
// matching sw_ev_socketpair in sw_util.c. Falls back to a loopback TCP pair
// on platforms where AF_UNIX socketpair is unavailable.
func New() (*Pipe, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return newLoopback()
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, os.NewSyscallError("setnonblock", err)
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &Pipe{Read: fds[0], Write: fds[1]}, nil
}

// newLoopback builds the pipe out of a connected loopback TCP pair. Kept as
// a fallback for completeness; every platform this module targets supports
// AF_UNIX socketpair, so this path is not normally exercised.
func newLoopback() (*Pipe, error) {
	ln, err := listenLoopback()
	if err != nil {
		return nil, errors.Wrap(err, "selfpipe: loopback listen")
	}
	defer ln.Close()

	dialFD, err := dialLoopback(ln.Addr().String())
	if err != nil {
		return nil, errors.Wrap(err, "selfpipe: loopback dial")
	}
	acceptFD, err := acceptLoopback(ln)
	if err != nil {
		unix.Close(dialFD)
		return nil, errors.Wrap(err, "selfpipe: loopback accept")
	}
	if err := unix.SetNonblock(dialFD, true); err != nil {
		unix.Close(dialFD)
		unix.Close(acceptFD)
		return nil, os.NewSyscallError("setnonblock", err)
	}
	if err := unix.SetNonblock(acceptFD, true); err != nil {
		unix.Close(dialFD)
		unix.Close(acceptFD)
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &Pipe{Read: acceptFD, Write: dialFD}, nil
}

// Close releases both ends of the pipe. Safe to call once; matches the
// original's symmetric close(ctx->signal_pipe[0])/close(ctx->signal_pipe[1]).
func (p *Pipe) Close() error {
	err0 := unix.Close(p.Read)
	err1 := unix.Close(p.Write)
	if err0 != nil {
		return os.NewSyscallError("close", err0)
	}
	if err1 != nil {
		return os.NewSyscallError("close", err1)
	}
	return nil
}

// Notify writes one byte to the write end, async-signal-safe since it is a
// raw write(2) with no allocation, matching sw_ev_signal_handler_'s
// write(ctx->signal_pipe[1], &signal_no, 1).
func Notify(writeFD int, b byte) {
	buf := [1]byte{b}
	unix.Write(writeFD, buf[:])
}

// Drain reads every byte currently queued on the read end into fn, mirroring
// sw_ev_sinal_reach_'s read-in-a-loop-until-EAGAIN pattern. Returns the
// count of bytes delivered to fn. An end-of-file on the read end (the write
// end was closed) is reported as io.ErrUnexpectedEOF.
func Drain(readFD int, fn func(b byte)) (int, error) {
	var buf [512]byte
	total := 0
	for {
		n, err := unix.Read(readFD, buf[:])
		if n > 0 {
			for i := 0; i < n; i++ {
				fn(buf[i])
			}
			total += n
		}
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return total, nil
			}
			if err == unix.EINTR {
				continue
			}
			return total, os.NewSyscallError("read", err)
		}
		if n == 0 {
			return total, io.ErrUnexpectedEOF
		}
		if n < len(buf) {
			return total, nil
		}
	}
}
