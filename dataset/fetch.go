package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Download fetches url into dest unless dest already exists.
func Download(url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

// DownloadZipMember fetches a zip archive from url and extracts the named
// member into dest, removing the archive afterwards. It does nothing when
// dest already exists.
func DownloadZipMember(url, member, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	archive := dest + ".zip"
	if err := Download(url, archive); err != nil {
		return err
	}
	defer os.Remove(archive)

	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archive, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			os.Remove(dest)
			return err
		}
		return out.Close()
	}
	return fmt.Errorf("member %q not found in %s", member, url)
}
