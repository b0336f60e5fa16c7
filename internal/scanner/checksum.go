package scanner

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
)

// DefaultChunkSize is the read chunk size used when none is configured.
const DefaultChunkSize int64 = 64 * 1024 * 1024

// Checksums holds the digests computed for a single file. CRC32 is
// lowercase 8-digit hex; MD5 and SHA1 are empty unless requested.
type Checksums struct {
	Size  int64
	CRC32 string
	MD5   string
	SHA1  string
}

// ChecksumFile reads path in chunks and computes its CRC32, plus MD5 and
// SHA1 when withHashes is set. progress, when non-nil, is called after
// each chunk with the bytes read so far and the total file size.
func ChecksumFile(path string, chunkSize int64, withHashes bool, progress func(read, total int64)) (Checksums, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		return Checksums{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Checksums{}, err
	}

	crcHash := crc32.NewIEEE()
	hashes := []hash.Hash{crcHash}
	var md5Hash, sha1Hash hash.Hash
	if withHashes {
		md5Hash = md5.New()
		sha1Hash = sha1.New()
		hashes = append(hashes, md5Hash, sha1Hash)
	}

	writers := make([]io.Writer, len(hashes))
	for i, h := range hashes {
		writers[i] = h
	}
	w := io.MultiWriter(writers...)

	var read int64
	for {
		n, err := io.CopyN(w, f, chunkSize)
		read += n
		if progress != nil && n > 0 {
			progress(read, info.Size())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Checksums{}, err
		}
	}

	sums := Checksums{
		Size:  read,
		CRC32: fmt.Sprintf("%08x", crcHash.Sum32()),
	}
	if withHashes {
		sums.MD5 = hex.EncodeToString(md5Hash.Sum(nil))
		sums.SHA1 = hex.EncodeToString(sha1Hash.Sum(nil))
	}
	return sums, nil
}
