package procmgr_test

import (
	"context"
	"fmt"

	"github.com/jrepp/modelauncher/pkg/procmgr"
)

func ExampleCoordinator() {
	c := procmgr.NewCoordinator(
		procmgr.WithExitHandler(func(ev procmgr.ExitEvent) {
			fmt.Printf("%s exited with %s, %d remaining\n", ev.Path, ev.Status, ev.Remaining)
		}),
	)

	// A real caller passes the Wait of an exec.Cmd it already started
	if _, err := c.Track("/usr/bin/editor", 4242, func() procmgr.ExitStatus {
		return procmgr.ExitStatus{Code: 2}
	}); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("active:", c.Active())

	if err := c.Wait(context.Background()); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("active:", c.Active())

	// Output:
	// active: 1
	// /usr/bin/editor exited with status 2, signal 0, 0 remaining
	// active: 0
}
