package objectapi

import "encoding/xml"

const s3Namespace = "http://s3.amazonaws.com/doc/2006-03-01/"

// initiateMultipartUploadResult is the response body of POST ?uploads,
// matching the element names and ordering original_source's
// handle_create_multipart_upload hand-writes; encoding/xml gives correct
// <Key> escaping by construction instead of a hand-rolled xml_escape.
type initiateMultipartUploadResult struct {
	XMLName  xml.Name `xml:"InitiateMultipartUploadResult"`
	Xmlns    string   `xml:"xmlns,attr"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	UploadID string   `xml:"UploadId"`
}

// completeMultipartUploadResult is the response body of POST
// ?uploadId=..., matching handle_complete_multipart_upload's element
// names/ordering.
type completeMultipartUploadResult struct {
	XMLName  xml.Name `xml:"CompleteMultipartUploadResult"`
	Xmlns    string   `xml:"xmlns,attr"`
	Location string   `xml:"Location"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
}

func marshalInitiateResult(bucket, key, uploadID string) ([]byte, error) {
	return marshalWithHeader(initiateMultipartUploadResult{
		Xmlns:    s3Namespace,
		Bucket:   bucket,
		Key:      key,
		UploadID: uploadID,
	})
}

func marshalCompleteResult(bucket, key, location string) ([]byte, error) {
	return marshalWithHeader(completeMultipartUploadResult{
		Xmlns:    s3Namespace,
		Location: location,
		Bucket:   bucket,
		Key:      key,
	})
}

func marshalWithHeader(v interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "\t")
	if err != nil {
		return nil, err
	}
	out := append([]byte(xml.Header), body...)
	out = append(out, '\n')
	return out, nil
}
