// Package images catalogues and creates floppy and hard disk images.
//
// # Catalogue
//
// List walks an image directory and returns every .adf and .hdf file,
// grouped by the first directory below the root:
//
//	adf/
//	  Workbench.adf        -> group "root"
//	  games/Lemmings.adf   -> group "games"
//	  games/aga/Fire.adf   -> group "games"
//
// The directory is walked on every call; nothing is cached.
//
// # Names
//
// Image, kickstart and HDF names given by users are resolved against their
// directory with Resolve. Relative names cannot escape the directory.
//
// # Creating Images
//
// Blank ADFs are created with amitools' xdftool through a Creator. The tool
// is configured as a command line and may carry arguments, e.g.
// "python3 -m amitools.tools.xdftool".
package images
