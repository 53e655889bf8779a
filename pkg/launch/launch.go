// Package launch replaces the current process image with a resolved
// bundle executable, forwarding arguments and environment untouched.
package launch

// Argv builds the argument vector for the replacement process:
// position 0 becomes the target path so the program sees its real
// location, every later argument passes through unchanged and in
// order.
func Argv(target string, args []string) []string {
	argv := []string{target}
	if len(args) > 1 {
		argv = append(argv, args[1:]...)
	}
	return argv
}
