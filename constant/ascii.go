package constant

// AsciiArtLogo is the application's banner.
const AsciiArtLogo = `
  ___ _ _____ _ __ | |_ ___ __ _ ___| |_
 / _ \ V / -_) '  \|  _/ _/ _' (_-<  _|
 \___|\_/\___|_||_|\__\__\__,_/__/\__|
`
