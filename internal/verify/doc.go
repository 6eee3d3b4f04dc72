/*
Package verify checks an application's tsconfig.json before a build and
corrects it to match the build's policy.

A run goes through these steps:

 1. Detect: without a configuration file, look for TypeScript sources. None
    found means the run is skipped.
 2. Bootstrap: write an empty configuration file and mark the run as first
    time setup.
 3. Acquire the compiler from node_modules. Failing that aborts the run.
 4. Parse the file with the compiler. Diagnostics abort the run.
 5. Reconcile the written tree against the policy table.
 6. Default include to the source directory when nothing sets it.
 7. Persist the corrected tree when anything changed.
 8. Create the ambient declarations file when it is missing.

Running twice in a row yields no changes on the second run.

Fatal conditions come back as *AbortError. Printing them and exiting is
left to the caller.
*/
package verify
