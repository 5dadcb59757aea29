// Package flock provides advisory, cross-platform file locks.
//
// Several webprobe processes may share one report directory. The file sink
// holds a lock on a marker file in that directory while it picks a free
// report name and renames the finished file into place.
//
//	l, err := flock.Acquire(ctx, filepath.Join(dir, flock.DefaultName))
//	if err != nil {
//	    return err
//	}
//	defer l.Release()
package flock
