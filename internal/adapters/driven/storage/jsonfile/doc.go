// Package jsonfile stores the vector snapshot as one JSON document.
//
// The layout is the interchange format shared with earlier tooling:
//
//	{
//	  "chunks": [
//	    {"id": "...", "company": "...", "period": "...", "text": "...",
//	     "source_file": "...", "position": 0}
//	  ],
//	  "embeddings": [[0.1, 0.2, ...]]
//	}
//
// A missing file is an empty store. Every Save rewrites the whole document
// through a temporary file and a rename, so the file on disk is always a
// complete snapshot. Concurrent writers are not coordinated: two processes
// that load the same snapshot and both save will lose the first writer's
// additions.
package jsonfile
