/*
The glslt command expands GLSLT templates in a GLSL source file into plain
GLSL.

	Usage: glslt [flags] file...

A GLSLT template is a function definition with one or more parameters
typed by a "pointer type": a bodyless function prototype declared earlier
in the same translation unit. Each distinct call site, keyed by its
argument expressions, produces its own specialized function; the call
site is rewritten to call that specialization instead of the template.

Multiple input files are concatenated in the order given, after resolving
any #include directives. Quoted includes ("foo.glsl") are searched first
relative to the including file, then along the -I search path; angle
bracket includes (<foo.glsl>) are searched only along -I.

Flags:

	-o, --output string     output file (default stdout)
	-I string                system include search path (repeatable)
	-K, --keep-fns string   wanted root function name; repeating this flag
	                        switches to minifying mode, where only
	                        declarations transitively reachable from the
	                        named roots are emitted
	-p, --prefix string     override the generated-identifier prefix
	                        (default "_glslt_")
	-q, --quiet             quiet mode
	-v                      verbose mode, repeat to increase

The GLSLT_LOG environment variable overrides the log level implied by
-q/-v (error, warn, info, debug); GLSLT_LOG_STYLE=never disables ANSI
color in log output.

Exit status is 0 on success and non-zero if the input could not be loaded
or the transform failed.
*/
package main
