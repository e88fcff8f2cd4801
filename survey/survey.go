// Package survey declares the pipeline collaborators that surround the
// cube toolkit: the reprojection engine, the tile placement service,
// and the observation archive. Their implementations bind external
// systems (an imaging toolkit, a sky tessellation service, the archive
// API) and live outside this module; the cube operations only ever see
// these interfaces.
package survey

import (
	"context"

	"github.com/aussrc/cubekit/fits"
)

// TilePixel places one sky tile: the tile's pixel identifier on the
// survey's spherical grid and the reference pixel at which the source
// cube must be regridded to land on that tile.
type TilePixel struct {
	ID       int64
	CRPixRA  float64
	CRPixDec float64
}

// TileLocator maps an observation's sky footprint to the tiles it must
// produce.
type TileLocator interface {
	// Locate returns the tile placements covered by the observation's
	// footprint, given the cube's parsed header.
	Locate(header *fits.Header) ([]TilePixel, error)
}

// Regridder resamples a source cube onto a tile's target geometry. Its
// numerical correctness is out of scope here; cube splitting, joining
// and verification treat its outputs as opaque cubes.
type Regridder interface {
	Regrid(ctx context.Context, cubePath string, tile TilePixel, template *fits.Header, outputPath string) error
}

// ArchiveClient stages and downloads source cubes from the observation
// archive prior to partitioning.
type ArchiveClient interface {
	// Stage asks the archive to make an observation's files available
	// for download.
	Stage(ctx context.Context, obsID string) error

	// Download retrieves an observation's staged files into destDir and
	// returns their paths.
	Download(ctx context.Context, obsID, destDir string) ([]string, error)
}
